package main

import (
	"reflect"
	"testing"
)

func TestRewriteIdentityLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"maklumat"},
			want: []string{"maklumat"},
		},
		{
			name: "identity first token",
			in:   []string{"maklumat", "840110-07-5583"},
			want: []string{"maklumat", "show", "840110-07-5583"},
		},
		{
			name: "digits only",
			in:   []string{"maklumat", "840110075583"},
			want: []string{"maklumat", "show", "840110075583"},
		},
		{
			name: "identity after value flag",
			in:   []string{"maklumat", "--config-dir", "./tmp", "840110075583"},
			want: []string{"maklumat", "--config-dir", "./tmp", "show", "840110075583"},
		},
		{
			name: "identity after equals flag",
			in:   []string{"maklumat", "--format=table", "840110075583"},
			want: []string{"maklumat", "--format=table", "show", "840110075583"},
		},
		{
			name: "identity after bool flag",
			in:   []string{"maklumat", "--pretty", "840110075583"},
			want: []string{"maklumat", "--pretty", "show", "840110075583"},
		},
		{
			name: "identity after double dash",
			in:   []string{"maklumat", "--pretty", "--", "840110-07-5583"},
			want: []string{"maklumat", "--pretty", "show", "--", "840110-07-5583"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"maklumat", "show", "840110075583"},
			want: []string{"maklumat", "show", "840110075583"},
		},
		{
			name: "short number not rewritten",
			in:   []string{"maklumat", "12"},
			want: []string{"maklumat", "12"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"maklumat", "wat"},
			want: []string{"maklumat", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteIdentityLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteIdentityLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
