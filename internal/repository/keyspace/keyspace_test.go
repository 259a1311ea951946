package keyspace

import "testing"

func TestKeyspace_Layout(t *testing.T) {
	k := New("xy:")
	tests := []struct {
		got, want string
	}{
		{k.Collection("places"), "xy:collection:places"},
		{k.CollectionPattern(), "xy:collection:*"},
		{k.Index("places"), "xy:{places}:idx"},
		{k.PointPrefix("places"), "xy:{places}:pt:"},
		{k.Point("places", "d1", "location", 2), "xy:{places}:pt:d1:location:2"},
		{k.Document("places", "d1"), "xy:{places}:doc:d1"},
		{k.DataPattern("places"), "xy:{places}:*"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestKeyspace_DefaultPrefix(t *testing.T) {
	if got := New("").Collection("a"); got != "xydex:collection:a" {
		t.Errorf("Collection() = %q", got)
	}
}

func TestKeyspace_NoCrossIndexOverlap(t *testing.T) {
	k := New("")
	// an index called "collection" must not capture mapping keys
	if got := k.DataPattern("collection"); got == k.CollectionPattern() {
		t.Errorf("data pattern %q collides with mapping pattern", got)
	}
}

func TestKeyspace_IndexFromCollectionKey(t *testing.T) {
	k := New("")
	name, err := k.IndexFromCollectionKey("xydex:collection:places")
	if err != nil || name != "places" {
		t.Errorf("got (%q, %v)", name, err)
	}
	if _, err := k.IndexFromCollectionKey("other:collection:places"); err == nil {
		t.Error("expected error for foreign key")
	}
}

func TestAttrs(t *testing.T) {
	if XAttr("location") != "location__x" || YAttr("location") != "location__y" {
		t.Errorf("got %s %s", XAttr("location"), YAttr("location"))
	}
}
