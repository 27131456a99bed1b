// Package widget holds the console's five interactive controllers: order
// creation, single-order lookup, the all-orders list, the status updater and
// the admin panel.
//
// Each widget owns its local state and nothing else. Widgets never share
// state or refresh one another: updating a status does not touch a list that
// another widget has already fetched.
//
// Every action is a single request/response round trip guarded by the
// widget's busy flag. While a request is outstanding, further actions on the
// same widget return ErrBusy without touching the network or the widget's
// state.
//
// Failures come in two kinds. *ValidationError is raised before any request
// is issued; anything else is the API client's error. Both are also kept as
// the widget's Feedback so a renderer can show them inline.
package widget
