package resolve

import (
	"reflect"
	"testing"
)

func TestParseCreditsText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []Credit
	}{
		{
			name: "comma separated roles",
			in:   "Director: Jane Doe, DOP: Sam Lee",
			want: []Credit{
				{Role: "Director", Name: "Jane Doe"},
				{Role: "DOP", Name: "Sam Lee"},
			},
		},
		{
			name: "newline separated",
			in:   "Director: Jane Doe\nEditor: Alex Kim",
			want: []Credit{
				{Role: "Director", Name: "Jane Doe"},
				{Role: "Editor", Name: "Alex Kim"},
			},
		},
		{
			name: "comma inside name survives",
			in:   "Starring: Smith, Jr., Producer: Ada Wong",
			want: []Credit{
				{Role: "Starring", Name: "Smith, Jr."},
				{Role: "Producer", Name: "Ada Wong"},
			},
		},
		{
			name: "no colon becomes generic credit",
			in:   "Shot on location in Iceland",
			want: []Credit{
				{Role: "Credit", Name: "Shot on location in Iceland"},
			},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
		{
			name: "blank lines skipped",
			in:   "\n\nDirector: Jane Doe\n\n",
			want: []Credit{
				{Role: "Director", Name: "Jane Doe"},
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ParseCreditsText(c.in)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("ParseCreditsText(%q) = %+v, want %+v", c.in, got, c.want)
			}
		})
	}
}
