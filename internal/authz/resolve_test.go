package authz

import "testing"

func TestResolve_AbsentRecordDenies(t *testing.T) {
	d := Resolve(nil, "GET", "/todo/123")
	if d.Allowed {
		t.Fatal("absent record must never allow")
	}
	if d.Reason != DenyNoRecord {
		t.Fatalf("expected DenyNoRecord, got %v", d.Reason)
	}
}

func TestResolve_SuperadminBypassesEntries(t *testing.T) {
	// Empty entries list — superadmin must still pass.
	rec := &Record{UserID: "u1", Role: RoleSuperadmin}
	d := Resolve(rec, "DELETE", "/permissions/user/u2")
	if !d.Allowed || d.Scope != ScopeAll {
		t.Fatalf("expected allow with scope all, got %+v", d)
	}

	// Even an explicit disabled entry for the same path is ignored.
	rec.Entries = []Entry{
		{Method: "ALL", Path: "/permissions/user/:id", Enabled: false, Scope: ScopeOwn},
	}
	d = Resolve(rec, "DELETE", "/permissions/user/u2")
	if !d.Allowed || d.Scope != ScopeAll {
		t.Fatalf("expected superadmin to skip entry scan, got %+v", d)
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	rec := &Record{
		UserID: "u1",
		Role:   RoleUser,
		Entries: []Entry{
			{Method: "GET", Path: "/todo/:id", Enabled: true, Scope: ScopeOwn},
			// A later broader entry must never be consulted once the first matched.
			{Method: "ALL", Path: "/todo/:id", Enabled: true, Scope: ScopeAll},
		},
	}

	d := Resolve(rec, "GET", "/todo/123")
	if !d.Allowed || d.Scope != ScopeOwn {
		t.Fatalf("expected allow with scope own from first entry, got %+v", d)
	}

	// Changing entries after the first match must not change the outcome.
	rec.Entries[1] = Entry{Method: "GET", Path: "/todo/:id", Enabled: false, Scope: ScopeOwn}
	d2 := Resolve(rec, "GET", "/todo/123")
	if d2 != d {
		t.Fatalf("outcome depends on entries after the first match: %+v vs %+v", d, d2)
	}
}

func TestResolve_DisabledEntryShadowsLaterGrant(t *testing.T) {
	rec := &Record{
		UserID: "u1",
		Role:   RoleUser,
		Entries: []Entry{
			{Method: "GET", Path: "/todo/:id", Enabled: false, Scope: ScopeOwn},
			{Method: "ALL", Path: "/todo/:id", Enabled: true, Scope: ScopeAll},
		},
	}
	d := Resolve(rec, "GET", "/todo/123")
	if d.Allowed {
		t.Fatal("disabled first match must deny even with a later enabled grant")
	}
	if d.Reason != DenyEntryDisabled {
		t.Fatalf("expected DenyEntryDisabled, got %v", d.Reason)
	}
}

func TestResolve_NoMatchingEntry(t *testing.T) {
	rec := &Record{
		UserID: "u1",
		Role:   RoleUser,
		Entries: []Entry{
			{Method: "GET", Path: "/todo/:id", Enabled: true, Scope: ScopeOwn},
		},
	}
	d := Resolve(rec, "DELETE", "/todo/123")
	if d.Allowed {
		t.Fatal("expected deny for unmatched method")
	}
	if d.Reason != DenyNoMatchingEntry {
		t.Fatalf("expected DenyNoMatchingEntry, got %v", d.Reason)
	}

	d = Resolve(rec, "GET", "/permissions/list")
	if d.Allowed || d.Reason != DenyNoMatchingEntry {
		t.Fatalf("expected DenyNoMatchingEntry for unmatched path, got %+v", d)
	}
}

func TestResolve_MethodAll(t *testing.T) {
	rec := &Record{
		UserID: "u1",
		Role:   RoleManager,
		Entries: []Entry{
			{Method: MethodAll, Path: "/todo/:id", Enabled: true, Scope: ScopeAll},
		},
	}
	for _, m := range []string{"GET", "POST", "PATCH", "DELETE"} {
		d := Resolve(rec, m, "/todo/42")
		if !d.Allowed || d.Scope != ScopeAll {
			t.Fatalf("expected ALL entry to match %s, got %+v", m, d)
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	rec := &Record{
		UserID: "u1",
		Role:   RoleUser,
		Entries: []Entry{
			{Method: "GET", Path: "/todo/:id", Enabled: true, Scope: ScopeOwn},
		},
	}
	first := Resolve(rec, "GET", "/todo/123")
	for i := 0; i < 10; i++ {
		if d := Resolve(rec, "GET", "/todo/123"); d != first {
			t.Fatalf("resolution %d differed: %+v vs %+v", i, d, first)
		}
	}
}

func TestNarrowScope(t *testing.T) {
	conds := NarrowScope(ScopeOwn, "u1", nil)
	if len(conds) != 1 || conds[0].Field != "user_id" || conds[0].Value != "u1" {
		t.Fatalf("expected single user_id constraint, got %+v", conds)
	}

	conds = NarrowScope(ScopeAll, "u1", nil)
	if len(conds) != 0 {
		t.Fatalf("expected unchanged conditions for scope all, got %+v", conds)
	}

	base := []Cond{{Field: "status", Value: "pending"}}
	conds = NarrowScope(ScopeOwn, "u2", base)
	if len(conds) != 2 || conds[1].Field != "user_id" || conds[1].Value != "u2" {
		t.Fatalf("expected base plus user_id constraint, got %+v", conds)
	}
}

func TestValidateEntries(t *testing.T) {
	valid := []Entry{{Method: "GET", Path: "/todo/list", Enabled: true, Scope: ScopeOwn}}
	if err := ValidateEntries(valid); err != nil {
		t.Fatalf("expected valid entries, got %v", err)
	}
	if err := ValidateEntries([]Entry{{Method: "PUT", Path: "/x", Scope: ScopeOwn}}); err == nil {
		t.Fatal("expected error for unsupported method")
	}
	if err := ValidateEntries([]Entry{{Method: "GET", Path: "", Scope: ScopeOwn}}); err == nil {
		t.Fatal("expected error for empty path")
	}
	if err := ValidateEntries([]Entry{{Method: "GET", Path: "/x", Scope: "global"}}); err == nil {
		t.Fatal("expected error for invalid scope")
	}
}
