package enterprise

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

func newTestClient(url string) *Client {
	return NewClient(domain.SourcesConfig{RegistryBaseURL: url})
}

func TestFetchByTaxID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/company/0101234567" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"TenDoanhNghiep": "CÔNG TY TNHH CÔNG NGHỆ ACME",
			"DiaChi": "Số 12, Đường Lê Lợi, Phường Tràng Tiền, Quận Hoàn Kiếm, Hà Nội",
			"NganhNghe": "Công nghệ thông tin",
			"LoaiHinh": "Công ty TNHH",
			"SoDienThoai": "024.123.4567",
			"Website": "https://acme.com.vn",
			"NgayCap": "2015-03-10",
			"NgayHetHan": "2035-03-10",
			"DoanhThu": 5000000000,
			"SoNganHang": "0011223344"
		}`))
	}))
	defer srv.Close()

	rec, err := newTestClient(srv.URL).FetchByTaxID(context.Background(), "0101234567")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if rec.Name != "CÔNG TY TNHH CÔNG NGHỆ ACME" {
		t.Errorf("Name = %q", rec.Name)
	}
	if rec.Province != "Hà Nội" {
		t.Errorf("Province = %q", rec.Province)
	}
	if rec.District != "Quận Hoàn Kiếm" {
		t.Errorf("District = %q", rec.District)
	}
	if rec.Ward != "Phường Tràng Tiền" {
		t.Errorf("Ward = %q", rec.Ward)
	}
	if !rec.Authentic {
		t.Error("fetched records are authentic")
	}
	if rec.Source != SourceName {
		t.Errorf("Source = %q", rec.Source)
	}
	// Every required and optional field present.
	if rec.Quality != 100 {
		t.Errorf("Quality = %v, want 100", rec.Quality)
	}
}

func TestFetchByTaxIDErrors(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		if _, err := newTestClient(srv.URL).FetchByTaxID(context.Background(), "0101234567"); err == nil {
			t.Error("expected error for 404")
		}
	})

	t.Run("MalformedPayload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer srv.Close()

		if _, err := newTestClient(srv.URL).FetchByTaxID(context.Background(), "0101234567"); err == nil {
			t.Error("expected error for malformed payload")
		}
	})

	t.Run("ConnectionRefused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // close immediately

		if _, err := newTestClient(srv.URL).FetchByTaxID(context.Background(), "0101234567"); err == nil {
			t.Error("expected error for refused connection")
		}
	})
}

func TestQualityScoring(t *testing.T) {
	t.Run("RequiredOnly", func(t *testing.T) {
		p := registryPayload{Name: "A", Address: "B", Sector: "C", LegalType: "D"}
		if q := quality(p); q != 70 {
			t.Errorf("quality = %v, want 70", q)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if q := quality(registryPayload{}); q != 0 {
			t.Errorf("quality = %v, want 0", q)
		}
	})

	t.Run("NameAndAddressOnly", func(t *testing.T) {
		p := registryPayload{Name: "A", Address: "B"}
		if q := quality(p); q != 35 {
			t.Errorf("quality = %v, want 35", q)
		}
	})
}

func TestAddressExtraction(t *testing.T) {
	cases := []struct {
		address  string
		province string
		district string
		ward     string
	}{
		{
			"Số 5, Đường Nguyễn Huệ, Phường 1, Quận 3, TP Hồ Chí Minh",
			"TP Hồ Chí Minh", "Quận 3", "Phường 1",
		},
		{
			"Thôn Đoài, Xã Tam Hưng, Huyện Thanh Oai, Hà Nội",
			"Hà Nội", "Huyện Thanh Oai", "Xã Tam Hưng",
		},
		{"", "", "", ""},
		{"số nhà không rõ", "", "", ""},
	}

	for _, tc := range cases {
		if got := extractProvince(tc.address); got != tc.province {
			t.Errorf("extractProvince(%q) = %q, want %q", tc.address, got, tc.province)
		}
		if got := extractDistrict(tc.address); got != tc.district {
			t.Errorf("extractDistrict(%q) = %q, want %q", tc.address, got, tc.district)
		}
		if got := extractWard(tc.address); got != tc.ward {
			t.Errorf("extractWard(%q) = %q, want %q", tc.address, got, tc.ward)
		}
	}
}
