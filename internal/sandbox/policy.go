package sandbox

// Policy is the immutable description of what a spawned child may do:
// which directories it may read beyond the platform baseline, which
// directories it may write, and whether it may use the TCP network.
//
// A nil Read or Write slice is equivalent to an empty one — Go slices have
// no analogue of the C "declared count nonzero but storage absent" failure
// mode construct() used to reject, so that case is simply absent here (see
// DESIGN.md's Open Questions section).
type Policy struct {
	Read    []string
	Write   []string
	Network bool
}

// clonePolicy deep-copies the path slices so the Sandbox owns its own
// storage independent of whatever the caller does with policy afterward.
func clonePolicy(p Policy) Policy {
	return Policy{
		Read:    append([]string(nil), p.Read...),
		Write:   append([]string(nil), p.Write...),
		Network: p.Network,
	}
}
