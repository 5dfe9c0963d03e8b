package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"linkdeck-cli/internal/cli"
)

func TestShorthandArgs(t *testing.T) {
	flags := cli.NewRootCmd().PersistentFlags()

	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "bare id",
			in:   []string{"item-abc12345"},
			want: []string{"items", "show", "item-abc12345"},
		},
		{
			name: "id after value flag",
			in:   []string{"--user", "u1", "item-abc12345"},
			want: []string{"--user", "u1", "items", "show", "item-abc12345"},
		},
		{
			name: "id after bool flag",
			in:   []string{"--pretty", "item-abc12345"},
			want: []string{"--pretty", "items", "show", "item-abc12345"},
		},
		{
			name: "id after terminator",
			in:   []string{"--", "item-abc12345"},
			want: []string{"items", "show", "--", "item-abc12345"},
		},
		{
			name: "flag=value form",
			in:   []string{"--format=json", "item-abc12345"},
			want: []string{"--format=json", "items", "show", "item-abc12345"},
		},
		{
			name: "subcommand untouched",
			in:   []string{"items", "list"},
			want: []string{"items", "list"},
		},
		{
			name: "value flag does not donate its value",
			in:   []string{"--user", "item-abc12345"},
			want: []string{"--user", "item-abc12345"},
		},
		{
			name: "bare prefix untouched",
			in:   []string{"item-"},
			want: []string{"item-"},
		},
		{
			name: "no args",
			in:   []string{},
			want: []string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, shorthandArgs(tc.in, flags)); diff != "" {
				t.Errorf("args (-want +got):\n%s", diff)
			}
		})
	}
}
