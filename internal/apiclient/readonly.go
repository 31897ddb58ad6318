package apiclient

import "strings"

// ReadPrefixes are the member-name prefixes that denote read operations.
var ReadPrefixes = []string{"get", "find"}

// IsReadOnly reports whether a member name denotes a read operation.
// It matches Go names (GetSupplier) and shell names (get_supplier) alike.
// The rule is purely syntactic: a mutating member named get* would pass.
func IsReadOnly(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range ReadPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

type dataReader = DataReader

// ReadOnlyDataClient exposes only the DataReader operations of a DataClient.
// The embedded reader is unexported so the full client cannot be recovered.
type ReadOnlyDataClient struct {
	dataReader
}

var _ DataReader = (*ReadOnlyDataClient)(nil)

// ReadOnly wraps a DataClient so that only its read operations are reachable.
func ReadOnly(c *DataClient) *ReadOnlyDataClient {
	return &ReadOnlyDataClient{dataReader: c}
}
