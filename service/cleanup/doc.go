// Package cleanup orchestrates ordered resource teardown on process
// termination. Handlers registered at initialization are invoked in reverse
// registration order, and the registered set is shared immutably so manager
// duplicates retain full cleanup coverage.
package cleanup
