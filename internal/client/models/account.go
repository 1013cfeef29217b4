package models

// AccountKind is a tagged account variant. Instead of boolean flags sprinkled
// through the facade, each kind declares which persistence operations apply.
type AccountKind int

const (
	// AccountRemote is backend-authoritative: profile writes go to the
	// identity backend, and the local store only caches a snapshot.
	AccountRemote AccountKind = iota

	// AccountLocalShadow exists only in the local account repository,
	// including its credential record. Used for offline/demo operation.
	AccountLocalShadow

	// AccountSeededDemo is one of the built-in demo authors. Read-only:
	// mutations apply to the in-memory cache and are never written back to
	// the seed data.
	AccountSeededDemo
)

func (k AccountKind) String() string {
	switch k {
	case AccountRemote:
		return "remote"
	case AccountLocalShadow:
		return "local"
	case AccountSeededDemo:
		return "seeded"
	default:
		return "unknown"
	}
}

// PersistsRemotely reports whether profile writes must reach the backend.
func (k AccountKind) PersistsRemotely() bool {
	return k == AccountRemote
}

// PersistsLocally reports whether the account repository holds the
// authoritative record for this account.
func (k AccountKind) PersistsLocally() bool {
	return k == AccountLocalShadow
}

// CredentialRecord is the locally stored credential material of a shadow
// account. The plain password is never stored; Salt and Verifier follow the
// cryptox scheme.
type CredentialRecord struct {
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

// Account couples a profile with its kind and, for local shadow accounts,
// the credential record.
type Account struct {
	Kind       AccountKind       `json:"kind"`
	Profile    Profile           `json:"profile"`
	Credential *CredentialRecord `json:"credential,omitempty"`
}
