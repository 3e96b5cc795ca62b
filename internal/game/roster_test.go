package game

import (
	"errors"
	"reflect"
	"testing"
)

func TestRosterAliveNamesByRole(t *testing.T) {
	r := NewRoster()
	for _, n := range []string{"ann", "bob", "cid", "dee"} {
		if err := r.Register(n, &stubParticipant{}); err != nil {
			t.Fatalf("register %s: %v", n, err)
		}
	}
	_ = r.AssignRole("ann", Role("Wolf"))
	_ = r.AssignRole("bob", Role("villager"))
	_ = r.AssignRole("cid", Role("wolf"))
	_ = r.AssignRole("dee", Role("seer"))

	cases := []struct {
		name  string
		roles []Role
		want  []string
	}{
		{"no filter", nil, []string{"ann", "bob", "cid", "dee"}},
		{"case insensitive", []Role{"WOLF"}, []string{"ann", "cid"}},
		{"several roles", []Role{"seer", "villager"}, []string{"bob", "dee"}},
		{"nobody", []Role{"witch"}, []string{}},
	}
	for _, tc := range cases {
		if got := r.AliveNames(tc.roles...); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: AliveNames = %v; want %v", tc.name, got, tc.want)
		}
	}

	r.Kill("ann")
	if got := r.AliveNames("wolf"); !reflect.DeepEqual(got, []string{"cid"}) {
		t.Fatalf("after kill: AliveNames(wolf) = %v", got)
	}
}

func TestRosterFirstAliveByRoleUsesRegistrationOrder(t *testing.T) {
	r := NewRoster()
	_ = r.Register("zed", &stubParticipant{})
	_ = r.Register("amy", &stubParticipant{})
	_ = r.AssignRole("amy", "guard")
	_ = r.AssignRole("zed", "guard")

	p, ok := r.FirstAliveByRole("guard")
	if !ok || p.Name != "zed" {
		t.Fatalf("FirstAliveByRole = %v, %v; want zed", p, ok)
	}

	r.Kill("zed")
	p, ok = r.FirstAliveByRole("GUARD")
	if !ok || p.Name != "amy" {
		t.Fatalf("after kill FirstAliveByRole = %v, %v; want amy", p, ok)
	}

	if _, ok := r.FirstAliveByRole("witch"); ok {
		t.Fatalf("expected no witch")
	}
}

func TestRosterKillIsIdempotent(t *testing.T) {
	r := NewRoster()
	_ = r.Register("a", &stubParticipant{})
	_ = r.Register("b", &stubParticipant{})

	if !r.Kill("a") {
		t.Fatalf("first kill should report a transition")
	}
	before := r.Players()

	if r.Kill("a") {
		t.Fatalf("second kill should be a no-op")
	}
	if r.Kill("nobody") {
		t.Fatalf("killing an unknown name should be a no-op")
	}
	if after := r.Players(); !reflect.DeepEqual(before, after) {
		t.Fatalf("state changed: %v -> %v", before, after)
	}
	if r.IsAlive("a") || !r.IsAlive("b") {
		t.Fatalf("unexpected alive flags")
	}
}

func TestRosterRegisterAndAssign(t *testing.T) {
	r := NewRoster()
	if err := r.Register("", &stubParticipant{}); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("empty name: got %v", err)
	}
	_ = r.Register("a", &stubParticipant{})
	if err := r.Register("a", &stubParticipant{}); !errors.Is(err, ErrDuplicatePlayer) {
		t.Fatalf("duplicate: got %v", err)
	}
	if err := r.AssignRole("ghost", "x"); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("unknown: got %v", err)
	}
	if _, ok := r.RoleOf("a"); ok {
		t.Fatalf("role should be absent before assignment")
	}
	if err := r.AssignRole("a", "x"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := r.AssignRole("a", "y"); !errors.Is(err, ErrRoleAssigned) {
		t.Fatalf("reassign: got %v", err)
	}
	if role, _ := r.RoleOf("a"); role != "x" {
		t.Fatalf("role = %q", role)
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d", r.Len())
	}
}

func TestRosterAttributes(t *testing.T) {
	r := NewRoster()
	_ = r.Register("a", &stubParticipant{})

	r.SetAttribute("a", "guarded", true)
	r.SetAttribute("ghost", "guarded", true)

	if v, ok := r.Attribute("a", "guarded"); !ok || v != true {
		t.Fatalf("Attribute = %v, %v", v, ok)
	}
	if _, ok := r.Attribute("a", "missing"); ok {
		t.Fatalf("missing key should be absent")
	}
	if _, ok := r.Attribute("ghost", "guarded"); ok {
		t.Fatalf("unknown player should be absent")
	}
	if _, ok := r.Player("ghost"); ok {
		t.Fatalf("unknown player lookup should be absent")
	}
}
