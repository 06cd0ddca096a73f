// Package enterprise fetches registry records from the public
// thongtindoanhnghiep.co company API.
package enterprise

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

// SourceName tags records fetched from the live registry.
const SourceName = "thongtindoanhnghiep.co"

// Client is an EnterpriseSource backed by the registry HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// courtesy rate limiting between consecutive requests
	rateDelay time.Duration
	mu        sync.Mutex
	lastReq   time.Time
}

// NewClient builds a registry client from the source settings.
func NewClient(cfg domain.SourcesConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.RegistryBaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		rateDelay:  cfg.RateDelay,
	}
}

// registryPayload mirrors the registry's JSON field names.
type registryPayload struct {
	Name             string  `json:"TenDoanhNghiep"`
	Address          string  `json:"DiaChi"`
	Sector           string  `json:"NganhNghe"`
	LegalType        string  `json:"LoaiHinh"`
	Phone            string  `json:"SoDienThoai"`
	Website          string  `json:"Website"`
	RegistrationDate string  `json:"NgayCap"`
	ExpiryDate       string  `json:"NgayHetHan"`
	Revenue          float64 `json:"DoanhThu"`
	BankAccount      string  `json:"SoNganHang"`
}

// FetchByTaxID fetches and cleans one company record. A non-200 response,
// malformed payload or transport failure is returned as an error; the
// caller treats any error as "source unusable" and falls back.
func (c *Client) FetchByTaxID(ctx context.Context, taxID string) (*domain.EnterpriseRecord, error) {
	c.throttle()

	url := fmt.Sprintf("%s/api/company/%s", c.baseURL, taxID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "vi-VN,vi;q=0.9,en;q=0.8")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	slog.Debug("registry response",
		"tax_id", taxID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var payload registryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed registry payload: %w", err)
	}

	rec := clean(payload, taxID)
	return &rec, nil
}

func (c *Client) throttle() {
	if c.rateDelay <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if wait := c.rateDelay - time.Since(c.lastReq); wait > 0 {
		time.Sleep(wait)
	}
	c.lastReq = time.Now()
}

// clean normalizes a raw payload into a record with derived address
// components and a quality score.
func clean(p registryPayload, taxID string) domain.EnterpriseRecord {
	if p.Revenue < 0 {
		p.Revenue = 0
	}
	return domain.EnterpriseRecord{
		TaxID:            taxID,
		Name:             p.Name,
		Address:          p.Address,
		Province:         extractProvince(p.Address),
		District:         extractDistrict(p.Address),
		Ward:             extractWard(p.Address),
		Sector:           p.Sector,
		LegalType:        p.LegalType,
		Phone:            p.Phone,
		Website:          p.Website,
		RegistrationDate: p.RegistrationDate,
		ExpiryDate:       p.ExpiryDate,
		Revenue:          p.Revenue,
		BankAccount:      p.BankAccount,
		Quality:          quality(p),
		Source:           SourceName,
		Authentic:        true,
		ExtractedAt:      time.Now(),
	}
}

// quality weighs the required field group at 70 points and the optional
// group at 30.
func quality(p registryPayload) float64 {
	required := []string{p.Name, p.Address, p.Sector, p.LegalType}
	optional := []string{p.Phone, p.Website, p.RegistrationDate}

	var score float64
	for _, f := range required {
		if f != "" {
			score += 70.0 / float64(len(required))
		}
	}
	optionalPresent := 0
	for _, f := range optional {
		if f != "" {
			optionalPresent++
		}
	}
	if p.Revenue > 0 {
		optionalPresent++
	}
	score += float64(optionalPresent) * 30.0 / float64(len(optional)+1)

	return score
}

var knownProvinces = []string{
	"Hà Nội", "TP Hồ Chí Minh", "Đà Nẵng", "Hải Phòng", "Cần Thơ",
	"An Giang", "Bà Rịa - Vũng Tàu", "Bạc Liêu", "Bắc Giang", "Bắc Kạn",
	"Bắc Ninh", "Bến Tre", "Bình Định", "Bình Dương", "Bình Phước",
	"Bình Thuận", "Cà Mau", "Cao Bằng", "Đắk Lắk", "Đắk Nông",
	"Điện Biên", "Đồng Nai", "Đồng Tháp", "Gia Lai", "Hà Giang",
	"Hà Nam", "Hà Tĩnh", "Hải Dương", "Hậu Giang", "Hòa Bình",
	"Hưng Yên", "Khánh Hòa", "Kiên Giang", "Kon Tum", "Lai Châu",
	"Lâm Đồng", "Lạng Sơn", "Lào Cai", "Long An", "Nam Định",
	"Nghệ An", "Ninh Bình", "Ninh Thuận", "Phú Thọ", "Phú Yên",
	"Quảng Bình", "Quảng Nam", "Quảng Ngãi", "Quảng Ninh", "Quảng Trị",
	"Sóc Trăng", "Sơn La", "Tây Ninh", "Thái Bình", "Thái Nguyên",
	"Thanh Hóa", "Thừa Thiên Huế", "Tiền Giang", "Trà Vinh", "Tuyên Quang",
	"Vĩnh Long", "Vĩnh Phúc", "Yên Bái",
}

var (
	districtRe = regexp.MustCompile(`(Quận [^,]+|Huyện [^,]+|Thành phố [^,]+|Thị xã [^,]+)`)
	wardRe     = regexp.MustCompile(`(Phường [^,]+|Xã [^,]+|Thị trấn [^,]+)`)
)

func extractProvince(address string) string {
	for _, p := range knownProvinces {
		if strings.Contains(address, p) {
			return p
		}
	}
	return ""
}

func extractDistrict(address string) string {
	return districtRe.FindString(address)
}

func extractWard(address string) string {
	return wardRe.FindString(address)
}
