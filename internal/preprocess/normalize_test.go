package preprocess

import (
	"strings"
	"testing"
)

func TestCleanBlankInput(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "\n\t \r\n"} {
		if got := Clean(in); got != "" {
			t.Fatalf("Clean(%q) = %q, want empty", in, got)
		}
	}
}

func TestCleanKeepsVietnameseAndPunctuation(t *testing.T) {
	t.Parallel()

	got := Clean("Việt  Nam,   100%!")
	if got != "Việt Nam, 100%!" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestCleanComposesDiacritics(t *testing.T) {
	t.Parallel()

	// "Việt" spelled with combining dot below and circumflex.
	decomposed := "Vie\u0323\u0302t Nam"
	got := Clean(decomposed)
	if got != "Việt Nam" {
		t.Fatalf("expected precomposed form, got %q", got)
	}
}

func TestCleanStripsURLs(t *testing.T) {
	t.Parallel()

	got := Clean("xem thêm https://abc.com/x?y=1 nha www.vnexpress.net/tin")
	if strings.Contains(got, "http") || strings.Contains(got, "www") {
		t.Fatalf("url survived cleaning: %q", got)
	}
	if got != "xem thêm nha" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestCleanStripsDanglingTimestamp(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"tin lúc 13/11/2025 11:21 sáng",
		"tin lúc 13/11/2025\u00a011:21 sáng",
		"tin lúc 13/11/2025\u202f11:21 sáng",
	} {
		if got := Clean(in); got != "tin lúc sáng" {
			t.Fatalf("Clean(%q) = %q", in, got)
		}
	}
}

func TestCleanStripsCaptionLines(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"Ảnh: Reuters\nNgân hàng công bố lỗ.\nNGUỒN : Bloomberg",
		"Theo\u00a0: Reuters\nNgân hàng công bố lỗ.",
		"Ảnh\u00a0:\u00a0AFP\nNgân hàng công bố lỗ.",
	} {
		if got := Clean(in); got != "Ngân hàng công bố lỗ." {
			t.Fatalf("Clean(%q) = %q", in, got)
		}
	}
}

func TestCleanStripsURLsAroundNoBreakSpace(t *testing.T) {
	t.Parallel()

	got := Clean("xem\u00a0https://vnexpress.net/a\u00a0ngay")
	if got != "xem ngay" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestCleanReplacesSymbols(t *testing.T) {
	t.Parallel()

	got := Clean("Cổ phiếu ▼ giảm 5% \u2014 “hoảng loạn” #CS")
	if got != "Cổ phiếu giảm 5% hoảng loạn CS" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	t.Parallel()

	samples := []string{
		"Credit Suisse sụp đổ!! Xem https://t.co/abc ngay.",
		"Ảnh: AFP\nTrái phiếu AT1 (17 tỷ USD) trở thành \"giấy vụn\".",
		"Cập nhật 1/2/2023 9:05 \u2014 UBS mua lại Credit Suisse; giá 3 tỷ CHF?",
		"  nhiều   khoảng\ttrắng\n\nvà dòng  ",
		"Emoji 🚀 và ký tự ★ đặc biệt @ # $",
		"Theo\u00a0: Reuters\nNgân hàng lỗ.",
		"tin lúc 13/11/2025\u00a011:21 sáng",
		"Nguồn\u2009: VnExpress\u00a0\u00a0Cổ phiếu\u3000giảm.",
	}
	for _, s := range samples {
		once := Clean(s)
		if twice := Clean(once); twice != once {
			t.Fatalf("not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestWordCount(t *testing.T) {
	t.Parallel()

	if n := WordCount(""); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
	if n := WordCount("một hai  ba\nbốn"); n != 4 {
		t.Fatalf("expected 4, got %d", n)
	}
}
