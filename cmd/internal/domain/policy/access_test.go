package policy

import "testing"

type testItem struct {
	id   string
	refs map[string]string
}

func (i *testItem) ItemID() string { return i.id }

func (i *testItem) Ref(field string) (string, bool) {
	v, ok := i.refs[field]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func TestDecide_UnconfiguredListIsPublic(t *testing.T) {
	for _, op := range Operations {
		if !Decide(nil, op, nil, nil) {
			t.Errorf("Decide(nil, %s) = false, want true", op)
		}
	}
}

func TestDecide_UnspecifiedListOperationIsPermitted(t *testing.T) {
	access := &Access{Update: Deny}

	if !Decide(access, OpRead, nil, nil) {
		t.Error("read should be permitted when only update is configured")
	}
	if Decide(access, OpUpdate, nil, nil) {
		t.Error("update should be denied")
	}
}

func TestDecideField_UnspecifiedOperationIsDenied(t *testing.T) {
	self := &Authentication{ListKey: "User", ItemID: "1"}
	item := &testItem{id: "1"}
	access := &Access{Update: Self{ListKey: "User"}}

	if DecideField(access, true, OpRead, self, item) {
		t.Error("read should be denied for a configured field without a read rule")
	}
	if DecideField(access, true, OpCreate, self, item) {
		t.Error("create should be denied for a configured field without a create rule")
	}
	if !DecideField(access, true, OpUpdate, self, item) {
		t.Error("update by self should be permitted")
	}
}

func TestDecideField_InheritsListDecision(t *testing.T) {
	if !DecideField(nil, true, OpRead, nil, nil) {
		t.Error("unconfigured field should follow a permitting list")
	}
	if DecideField(nil, false, OpRead, nil, nil) {
		t.Error("unconfigured field should follow a denying list")
	}
	if DecideField(Uniform(Allow), false, OpRead, nil, nil) {
		t.Error("field access cannot widen a list denial")
	}
}

func TestOwner_Allows(t *testing.T) {
	rule := Owner{ListKey: "User", Field: "author"}
	item := &testItem{id: "post-1", refs: map[string]string{"author": "42"}}

	tests := []struct {
		name string
		auth *Authentication
		item Item
		want bool
	}{
		{"owner", &Authentication{ListKey: "User", ItemID: "42"}, item, true},
		{"other user", &Authentication{ListKey: "User", ItemID: "7"}, item, false},
		{"same id other list", &Authentication{ListKey: "Admin", ItemID: "42"}, item, false},
		{"anonymous", nil, item, false},
		{"no item", &Authentication{ListKey: "User", ItemID: "42"}, nil, false},
		{"unset owner", &Authentication{ListKey: "User", ItemID: "42"}, &testItem{id: "post-2"}, false},
		{"empty identity", &Authentication{ListKey: "User"}, &testItem{refs: map[string]string{"author": ""}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rule.Allows(tt.auth, tt.item); got != tt.want {
				t.Errorf("Allows() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOwner_MissingFieldNeverMatches(t *testing.T) {
	// A rule pointing at a field the item does not have must deny, not panic.
	rule := Owner{ListKey: "User", Field: "user"}
	item := &testItem{id: "post-1", refs: map[string]string{"author": "42"}}

	if rule.Allows(&Authentication{ListKey: "User", ItemID: "42"}, item) {
		t.Error("owner rule on a missing field should deny")
	}
}

func TestSelf_Allows(t *testing.T) {
	rule := Self{ListKey: "User"}
	item := &testItem{id: "42"}

	if !rule.Allows(&Authentication{ListKey: "User", ItemID: "42"}, item) {
		t.Error("self should be allowed")
	}
	if rule.Allows(&Authentication{ListKey: "User", ItemID: "43"}, item) {
		t.Error("another user should be denied")
	}
	if rule.Allows(nil, item) {
		t.Error("anonymous should be denied")
	}
}

func TestUniform_AppliesToEveryOperation(t *testing.T) {
	access := Uniform(Owner{ListKey: "User", Field: "user"})
	for _, op := range Operations {
		if access.Rule(op) == nil {
			t.Errorf("Rule(%s) = nil, want owner rule", op)
		}
	}
}
