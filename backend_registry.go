package regclient

// BackendID represents a unique backend identifier.
// Using a typed constant prevents typos and provides compile-time safety.
type BackendID string

// Known backend identifiers
const (
	// BackendRegAPI is the production regulation answer API
	BackendRegAPI BackendID = "regapi"

	// BackendMock is the local mock backend for demos and testing
	BackendMock BackendID = "mock"
)

// String returns the string representation of the backend ID
func (b BackendID) String() string {
	return string(b)
}

// IsValid returns true if the backend ID is a known backend
func (b BackendID) IsValid() bool {
	switch b {
	case BackendRegAPI, BackendMock:
		return true
	default:
		return false
	}
}
