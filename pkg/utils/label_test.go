package utils

import (
	"reflect"
	"testing"
)

func TestMergeLabel(t *testing.T) {
	a := Label{Value: "genre:mystery", Source: "recall"}
	b := Label{Value: "genre:horror", Source: "recall"}

	m := MergeLabel(a, b)
	if !reflect.DeepEqual(m.Values(), []string{"genre:mystery", "genre:horror"}) {
		t.Errorf("values = %v", m.Values())
	}
	if m.Source != "recall,recall" {
		t.Errorf("source = %q", m.Source)
	}
	if again := MergeLabel(m, a); again != m {
		t.Errorf("duplicate value should not be appended: %+v", again)
	}
	if got := MergeLabel(Label{}, b); got != b {
		t.Errorf("empty existing should take incoming: %+v", got)
	}
}
