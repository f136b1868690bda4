// Package ollert implements the account system behind the Ollert web app:
// password and federated (Google, Facebook) login, email ownership
// verification, password recovery, and the stateless session credential that
// gates the per-user board document.
//
// # Architecture
//
// The core is the Auth orchestrator, which composes four collaborators:
//
// Accounts: the account registry over a UserStore. One record per username
// (an email address in practice) holding the password hash, the verified
// flag and the opaque board payload. Username uniqueness is enforced by the
// store's constraint, never by check-then-insert.
//
// CodeIssuer: purpose-scoped one-time codes in a TTL CodeCache, used for
// email verification and password reset. Reissuing overwrites; expiry is the
// only deletion.
//
// SessionIssuer: HS256 JWT session credentials delivered as a cookie. No
// server-side session state.
//
// IdentityResolver: maps a Google ID token or Facebook access token to a
// verified email address (see the providers package).
//
// # Basic Usage
//
//	users := mem.NewUserStore()
//	cache := mem.NewCodeCache()
//
//	auth := &ollert.Auth{
//	    Accounts: &ollert.Accounts{Store: users, Passwords: &ollert.PasswordHasher{}},
//	    Codes:    &ollert.CodeIssuer{Cache: cache},
//	    Sessions: &ollert.SessionIssuer{SecretKey: secret},
//	    Mailer:   &ollert.ConsoleMailer{},
//	    Resolvers: map[string]ollert.IdentityResolver{
//	        "google":   &providers.Google{ClientID: clientID},
//	        "facebook": &providers.Facebook{AppSecret: appSecret},
//	    },
//	}
//
//	r := mux.NewRouter()
//	auth.Routes(r)
//
// Production deployments swap the mem stores for stores/postgres (users) and
// stores/boltdb (codes), and the console mailer for mailer.SMTP.
//
// # Security
//
// Passwords are hashed with bcrypt; one-time codes are 20 characters drawn
// from a 62-symbol alphabet with crypto/rand and expire after 15 minutes.
// Login failures never reveal whether a username exists, and session
// verification reports a single uniform failure for absent, expired and
// tampered tokens alike.
package ollert
