package fs

// IsHidden reports whether name follows the dot-prefix convention for hidden entries.
func IsHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
