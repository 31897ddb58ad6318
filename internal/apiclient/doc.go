// Package apiclient provides HTTP clients for the three backend APIs apishell
// can bind into its shell: the Data API, the Search API and the Central
// Digital Platform (CDP) API.
//
// Constructing a client performs no network I/O. Every operation takes a
// context and returns the decoded JSON body as an Object, or an *APIError
// for non-2xx responses.
//
// # Read-only access
//
// DataReader is the read-only surface of DataClient: every Get* and Find*
// operation and nothing else. ReadOnly wraps a DataClient so that only that
// surface is reachable:
//
//	data := apiclient.NewDataClient(url, token, user, apiclient.Options{})
//	ro := apiclient.ReadOnly(data)
//	supplier, err := ro.GetSupplier(ctx, 12345) // forwarded unchanged
//	ro.UpdateSupplier(...)                       // does not compile
//
// IsReadOnly applies the same get/find naming rule to member names at
// runtime, for callers that dispatch by name.
package apiclient
