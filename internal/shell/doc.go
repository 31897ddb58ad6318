// Package shell implements apishell's interactive shell: a readline loop
// over a Namespace of bound API clients.
//
// Input lines are either built-in commands (help, whos, dir, format, copy,
// exit) or expressions of the form
//
//	<binding>.<member> [args...]
//
// which call the member by reflection. Members are addressed in snake_case
// (get_supplier) or by their Go name (GetSupplier). Arguments are
// separated by whitespace; bare words become strings and JSON values are
// decoded into the parameter's type. A leading context.Context parameter is
// filled in by the shell.
//
// Bindings marked read-only only expose members whose names start with a
// read prefix (see apiclient.IsReadOnly), both when calling and when
// listing members or completing input. Denied members fail at access time
// with a *MemberError.
package shell
