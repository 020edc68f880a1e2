package camp

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "three numbered lines",
			text: "1. ほったらかしキャンプ場\n2. ふもとっぱら\n3. 青川峡キャンピングパーク",
			want: []string{"ほったらかしキャンプ場", "ふもとっぱら", "青川峡キャンピングパーク"},
		},
		{
			name: "capped at three",
			text: "1. A\n2. B\n3. C\n4. D\n5. E",
			want: []string{"A", "B", "C"},
		},
		{
			name: "surrounding prose ignored",
			text: "おすすめはこちらです。\n1. ふもとっぱら\nどれも人気です。",
			want: []string{"ふもとっぱら"},
		},
		{
			name: "full-width period",
			text: "1.ふもとっぱら",
			want: []string{"ふもとっぱら"},
		},
		{
			name: "no numbered lines",
			text: "条件に合うキャンプ場は見つかりませんでした。",
			want: nil,
		},
		{
			name: "empty numbered line skipped",
			text: "1. \n2. ふもとっぱら",
			want: []string{"ふもとっぱら"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Parse() yielded %d records, want %d: %v", len(got), len(tt.want), got)
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Errorf("record %d = %q, want %q", i, got[i].Name, name)
				}
			}
		})
	}
}
