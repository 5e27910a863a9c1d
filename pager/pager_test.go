package pager

import "testing"

func TestReadWrite(t *testing.T) {
	data := make([]byte, 4*int(EightKb)) // 4 pages of 8KiB
	for i := range data {
		data[i] = byte(i / int(EightKb))
	}

	p := New(data)

	tests := []struct {
		name   string
		sel    Selector
		offset int
		want   uint8
	}{
		{"first page", First(EightKb), 0, 0},
		{"first page, last offset", First(EightKb), int(EightKb) - 1, 0},
		{"nth page", FromNth(2, EightKb), 0, 2},
		{"last page", Last(EightKb), 0, 3},
		{"from end 0 == last", FromEnd(0, EightKb), 5, 3},
		{"from end 1", FromEnd(1, EightKb), 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Read(tt.sel, tt.offset); got != tt.want {
				t.Errorf("Read() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	p := New(make([]byte, 2*int(SixteenKb)))

	p.Write(Last(SixteenKb), 10, 0x42)
	if got := p.Read(Last(SixteenKb), 10); got != 0x42 {
		t.Errorf("Read() after Write() = 0x%02x, want 0x42", got)
	}
	if got := p.Read(FromNth(1, SixteenKb), 10); got != 0x42 {
		t.Errorf("FromNth(1) should alias Last(): got 0x%02x", got)
	}
}

func TestPageCountPanicsOnUnevenData(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for data length not a multiple of page size")
		}
	}()
	p := New(make([]byte, 100))
	p.PageCount(EightKb)
}

func TestIndexPanicsOnOffsetOOB(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out of range offset")
		}
	}()
	p := New(make([]byte, int(OneKb)))
	p.Read(First(OneKb), int(OneKb))
}

func TestIndexPanicsOnPageOOB(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for page beyond last")
		}
	}()
	p := New(make([]byte, int(OneKb)))
	p.Read(FromNth(5, OneKb), 0)
}
