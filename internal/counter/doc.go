// Package counter is the counter domain shared by the prsh CLI and the live
// server: a reducer over State, its actions, and components that read the
// store through prsh.UseSelector.
package counter
