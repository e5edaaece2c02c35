package authz

import "fmt"

// DenyReason distinguishes why a request was refused.
type DenyReason int

const (
	DenyNone DenyReason = iota
	// DenyNoRecord: the identity has no permission record. Absence is a
	// hard stop, not "no restrictions" — an unprovisioned account must not
	// pass through.
	DenyNoRecord
	// DenyNoMatchingEntry: no entry matched the method+path.
	DenyNoMatchingEntry
	// DenyEntryDisabled: the first matching entry was disabled. A disabled
	// entry terminates the scan so an administrator can punch a hole in a
	// later, broader grant without reordering.
	DenyEntryDisabled
)

// Decision is the outcome of resolving one request against one record.
// All outcomes are values; Resolve never fails.
type Decision struct {
	Allowed bool
	Scope   Scope
	Reason  DenyReason
}

// Message returns the human-readable denial message for the HTTP response.
func (d Decision) Message(method, path string) string {
	switch d.Reason {
	case DenyNoRecord:
		return "Forbidden: Permissions not configured for this user."
	case DenyEntryDisabled, DenyNoMatchingEntry:
		return fmt.Sprintf("Forbidden: You do not have permission for %s %s.", method, path)
	}
	return ""
}

func allow(scope Scope) Decision {
	return Decision{Allowed: true, Scope: scope}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Resolve decides whether the holder of rec may invoke method on path.
//
// A superadmin record allows everything at scope "all" without consulting
// entries. Otherwise entries are scanned in stored order and the scan stops
// at the FIRST entry whose method (ALL or exact) and path pattern both
// match, regardless of whether that entry is enabled. Entry order is part
// of the security contract.
func Resolve(rec *Record, method, path string) Decision {
	if rec == nil {
		return deny(DenyNoRecord)
	}
	if rec.Role == RoleSuperadmin {
		return allow(ScopeAll)
	}
	for _, e := range rec.Entries {
		if e.Method != MethodAll && e.Method != method {
			continue
		}
		if !MatchPath(e.Path, path) {
			continue
		}
		if !e.Enabled {
			return deny(DenyEntryDisabled)
		}
		return allow(e.Scope)
	}
	return deny(DenyNoMatchingEntry)
}
