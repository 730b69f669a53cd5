// Package scenario is the document boundary: it reads raw network
// descriptions, turns them into validated models, renders run results back
// into output documents and generates synthetic inputs.
//
// The input format is the JSON produced by the topology tooling, one field
// per model concern (endhosts, egress_interfaces, paths_per_endhost,
// egress_capacities and so on). Either traffic_per_destination (rates) or
// data_volumes_per_destination (bulk sizes) supplies the demand; documents
// carrying both serve the rate solvers and the transfer solver from the
// same file.
//
// Output documents mirror what downstream visualization consumes: a status
// string, the objective with a fixed/variable breakdown when base costs
// were in play, the allocation nested host → path → destination, and a
// per-egress utilization block. Numbers are rounded at this boundary and
// nowhere else; infinite completion times are encoded as JSON null.
package scenario
