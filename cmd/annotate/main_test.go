package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectImportArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"annotate"},
			want: []string{"annotate"},
		},
		{
			name: "data export first token",
			in:   []string{"annotate", "news_data.json"},
			want: []string{"annotate", "collections", "import-combined", "news_data.json", "--name", "news"},
		},
		{
			name: "data export with directory",
			in:   []string{"annotate", "out/news_data.json"},
			want: []string{"annotate", "collections", "import-combined", "out/news_data.json", "--name", "news"},
		},
		{
			name: "data export after value flag",
			in:   []string{"annotate", "--dir", "./ws", "news_data.json"},
			want: []string{"annotate", "--dir", "./ws", "collections", "import-combined", "news_data.json", "--name", "news"},
		},
		{
			name: "data export after equals flag",
			in:   []string{"annotate", "--dir=./ws", "news_data.json"},
			want: []string{"annotate", "--dir=./ws", "collections", "import-combined", "news_data.json", "--name", "news"},
		},
		{
			name: "data export after bool flag",
			in:   []string{"annotate", "--pretty", "news_data.json", "--format", "yaml"},
			want: []string{"annotate", "--pretty", "collections", "import-combined", "news_data.json", "--name", "news", "--format", "yaml"},
		},
		{
			name: "data export after double dash",
			in:   []string{"annotate", "--", "news_data.json"},
			want: []string{"annotate", "--", "collections", "import-combined", "news_data.json", "--name", "news"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"annotate", "collections", "import-combined", "news_data.json"},
			want: []string{"annotate", "collections", "import-combined", "news_data.json"},
		},
		{
			name: "bare suffix not rewritten",
			in:   []string{"annotate", "_data.json"},
			want: []string{"annotate", "_data.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectImportArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectImportArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
