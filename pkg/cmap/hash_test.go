package cmap

import "testing"

func TestHasherByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Hasher
		wantErr bool
	}{
		{"", Murmur3, false},
		{"murmur3", Murmur3, false},
		{"MURMUR3", Murmur3, false},
		{" xxhash ", XXHash, false},
		{"fnv", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := HasherByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("HasherByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if h("sample-key") != tt.want("sample-key") {
				t.Errorf("HasherByName(%q) returned a different hash function", tt.name)
			}
		})
	}
}

func TestHashersAreStable(t *testing.T) {
	for _, h := range []Hasher{Murmur3, XXHash} {
		a := h("same-key")
		for i := 0; i < 10; i++ {
			if b := h("same-key"); b != a {
				t.Fatalf("hash changed between calls: %d then %d", a, b)
			}
		}
		if h("key-a") == h("key-b") {
			t.Errorf("distinct keys produced identical hashes")
		}
	}
}

func TestXXHashKnownValue(t *testing.T) {
	// xxHash64 of the empty input with seed 0.
	if got := XXHash(""); got != 0xef46db3751d8e999 {
		t.Errorf("XXHash(\"\") = %#x, want 0xef46db3751d8e999", got)
	}
}
