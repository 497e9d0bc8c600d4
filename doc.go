/*
Package zonegen compiles a single declarative zone description into fully
normalized, validated DNS resource records for all forward and reverse zones.

The input document can be written in TOML or YAML and deliberately allows
several equivalent notations: most fields accept a scalar where a list of one
would do, and a plain string where a table with extra options would do. Zones
can be given as a name-keyed map or as an array of tables carrying their own
name. All of these shapes are normalized into one canonical model before any
records are derived.

Resolution applies cascading defaults, completes every name to a fully
qualified domain name, derives NS/MX/A/AAAA/CNAME/SRV records per zone, and
computes reverse zones from declared CIDR blocks, partitioning the PTR
candidates collected from the forward zones among them. Cross-zone invariants
(no duplicate PTR target, no overlapping reverse networks) are enforced during
resolution; any failure aborts the run with no partial result.

Renderers for NSD and Unbound turn the resolved model into server
configuration. They only format, all validation and derivation has already
happened by the time they run.
*/
package zonegen
