package dxup

import "testing"

func TestSpirvWordsLittleEndian(t *testing.T) {
	words, err := spirvWords([]byte{0x01, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff})
	if err != nil {
		t.Fatalf("spirvWords: %v", err)
	}
	if len(words) != 2 || words[0] != 1 || words[1] != 0xffffffff {
		t.Fatalf("spirvWords = %v, want [1, 0xffffffff]", words)
	}
}

func TestSpirvWordsRejectsUnalignedLength(t *testing.T) {
	if _, err := spirvWords([]byte{0x01, 0x02, 0x03}); err == nil {
		t.Fatalf("spirvWords accepted a length that is not a multiple of 4")
	}
}
