package tiers

import "testing"

func TestFinalLevel(t *testing.T) {
	if got := FinalLevel(); got != 4096 {
		t.Errorf("FinalLevel() = %d, want 4096", got)
	}
}

func TestNameFor(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{2, "Mouse"},
		{64, "Bear"},
		{2048, "Dragon"},
		{4096, "Unicorn"},
		{0, DefaultName},
		{8192, DefaultName},
		{3, DefaultName},
	}

	for _, tt := range tests {
		if got := NameFor(tt.level); got != tt.want {
			t.Errorf("NameFor(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestIconFor(t *testing.T) {
	if got := IconFor(2048); got != "🐲" {
		t.Errorf("IconFor(2048) = %q", got)
	}
	if got := IconFor(8192); got != "8192" {
		t.Errorf("IconFor(8192) = %q, want number fallback", got)
	}
	if got := IconFor(0); got != "" {
		t.Errorf("IconFor(0) = %q, want empty", got)
	}
}

func TestChainIsDoubling(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		if all[i].Level != all[i-1].Level*2 {
			t.Errorf("tier %d level %d is not double %d", i, all[i].Level, all[i-1].Level)
		}
		if Index(all[i].Level) != i {
			t.Errorf("Index(%d) = %d, want %d", all[i].Level, Index(all[i].Level), i)
		}
	}
	if Index(3) != -1 {
		t.Error("Index(3) should be -1")
	}
}

func TestRows(t *testing.T) {
	rows := Rows()
	if len(rows) != 2 || len(rows[0]) != 8 || len(rows[1]) != 4 {
		t.Fatalf("unexpected row layout: %d rows", len(rows))
	}
	if rows[1][0].Name != "Koala" {
		t.Errorf("second row starts with %s, want Koala", rows[1][0].Name)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0].Name = "Changed"
	if NameFor(2) != "Mouse" {
		t.Error("All() must not expose the internal chain")
	}
}
