package sandbox

import "os"

// validateScopes runs at the start of every Spawn: every declared path
// must be non-empty, must stat, and must be a directory.
func validateScopes(policy Policy) error {
	if err := validateScope("read", policy.Read); err != nil {
		return err
	}
	return validateScope("write", policy.Write)
}

func validateScope(kind string, paths []string) error {
	for i, p := range paths {
		if p == "" {
			return newError(KindInvalidScope, "%s scope entry %d is empty", kind, i)
		}
		info, err := os.Stat(p)
		if err != nil {
			return wrapError(KindInvalidScope, err, "%s scope entry %d (%q)", kind, i, p)
		}
		if !info.IsDir() {
			return newError(KindInvalidScope, "%s scope entry %d (%q) is not a directory", kind, i, p)
		}
	}
	return nil
}
