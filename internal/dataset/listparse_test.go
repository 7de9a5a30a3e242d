package dataset

import (
	"reflect"
	"testing"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "empty literal", in: "[]", want: nil},
		{name: "single quoted items", in: "['a', 'b']", want: []string{"a", "b"}},
		{name: "double quoted items", in: `["a", "b"]`, want: []string{"a", "b"}},
		{name: "mixed quotes", in: `['a', "b"]`, want: []string{"a", "b"}},
		{name: "single item", in: "['only']", want: []string{"only"}},
		{name: "not a list falls back to singleton", in: "raw-value", want: []string{"raw-value"}},
		{name: "malformed list falls back to raw", in: "[not quoted]", want: []string{"[not quoted]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseList(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}
