package frame

import (
	"errors"
	"testing"
)

func joinFixtures() (left, right *Table) {
	left = New("addr", "elec")
	left.Append("A", 15.0)
	left.Append("B", 7.0)

	right = New("addr", "gas")
	right.Append("A", 22.0)
	right.Append("A", 3.0)
	return left, right
}

func TestJoinOneToOneViolation(t *testing.T) {
	left, right := joinFixtures()

	_, err := Join(left, right, []string{"addr"}, JoinOptions{Mode: JoinInner, Cardinality: OneToOne})
	var violation *CardinalityViolation
	if !errors.As(err, &violation) {
		t.Fatalf("want CardinalityViolation, got %v", err)
	}
	if violation.Side != "right" || violation.Key != "A" {
		t.Errorf("violation = %+v", violation)
	}
}

func TestJoinOneToManyAllowsRightDuplicates(t *testing.T) {
	left, right := joinFixtures()

	out, err := Join(left, right, []string{"addr"}, JoinOptions{Mode: JoinInner, Cardinality: OneToMany})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	rows := 0
	for i := 0; i < out.Len(); i++ {
		if out.At(i, "addr") == "A" {
			rows++
		}
	}
	if rows != 2 {
		t.Errorf("A rows = %d, want 2", rows)
	}
}

func TestJoinLeftProvenance(t *testing.T) {
	left := New("addr", "elec")
	left.Append("A", 15.0)
	left.Append("B", 7.0)
	right := New("addr", "gas")
	right.Append("A", 22.0)

	out, err := Join(left, right, []string{"addr"}, JoinOptions{
		Mode:             JoinLeft,
		Cardinality:      OneToOne,
		ProvenanceColumn: "_merge",
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("rows = %d, want 2", out.Len())
	}
	if got := out.At(0, "_merge"); got != ProvenanceBoth {
		t.Errorf("A provenance = %v", got)
	}
	if got := out.At(1, "_merge"); got != ProvenanceLeftOnly {
		t.Errorf("B provenance = %v", got)
	}
	if got := out.At(1, "gas"); got != nil {
		t.Errorf("unmatched gas = %v, want nil", got)
	}
}

func TestJoinOuterKeepsRightOnlyRows(t *testing.T) {
	left := New("postcodes", "consumption")
	left.Append("Dublin 1", 10.0)
	right := New("postcodes", "geom")
	right.Append("Dublin 1", "g1")
	right.Append("Dublin 2", "g2")

	out, err := Join(left, right, []string{"postcodes"}, JoinOptions{
		Mode:             JoinOuter,
		Cardinality:      OneToMany,
		ProvenanceColumn: "_merge",
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("rows = %d, want 2", out.Len())
	}
	if got := out.At(1, "postcodes"); got != "Dublin 2" {
		t.Errorf("right-only key = %v", got)
	}
	if got := out.At(1, "consumption"); got != nil {
		t.Errorf("right-only consumption = %v, want nil", got)
	}
	if got := out.At(1, "_merge"); got != ProvenanceRightOnly {
		t.Errorf("right-only provenance = %v", got)
	}
}

func TestJoinSuffixesClashingColumns(t *testing.T) {
	left := New("addr", "deduped")
	left.Append("A", "a-left")
	right := New("addr", "deduped")
	right.Append("A", "a-right")

	out, err := Join(left, right, []string{"addr"}, JoinOptions{Mode: JoinInner, Cardinality: OneToOne})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if got := out.At(0, "deduped_left"); got != "a-left" {
		t.Errorf("deduped_left = %v", got)
	}
	if got := out.At(0, "deduped_right"); got != "a-right" {
		t.Errorf("deduped_right = %v", got)
	}
}

func TestJoinMissingKeyColumn(t *testing.T) {
	left := New("addr")
	left.Append("A")
	right := New("other")
	right.Append("A")

	var precondition *PreconditionError
	if _, err := Join(left, right, []string{"addr"}, JoinOptions{Mode: JoinInner}); !errors.As(err, &precondition) {
		t.Fatalf("want PreconditionError")
	}
	if precondition.Column != "addr" {
		t.Errorf("error names column %q", precondition.Column)
	}
}

func TestJoinOutputIndexIsContiguous(t *testing.T) {
	left, right := joinFixtures()
	out, err := Join(left, right, []string{"addr"}, JoinOptions{Mode: JoinLeft, Cardinality: ManyToMany})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	for i, idx := range out.Index() {
		if idx != i {
			t.Fatalf("index[%d] = %d", i, idx)
		}
	}
}
