// Package vss talks to the social-insurance portal: connectivity probe,
// session login and the four per-enterprise data fetches. Every fetch
// degrades to an empty list instead of an error; the fusion engine decides
// on fallback from emptiness.
package vss

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

// Client is a RegulatorySource backed by the portal's HTTP surface.
type Client struct {
	baseURL    string
	httpClient *http.Client

	requireAuth   bool
	authenticated bool
}

// NewClient builds a portal client with a cookie-backed session.
func NewClient(cfg domain.SourcesConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		requireAuth: cfg.RequireAuth,
		baseURL:     strings.TrimRight(cfg.PortalBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
			// Login success is signalled by a redirect; keep it visible.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// ProbeReachable reports whether the portal answers at its root URL.
func (c *Client) ProbeReachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("portal probe failed", "error", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode < 500
}

var csrfRe = regexp.MustCompile(`name="_token"[^>]*value="([^"]+)"`)

// Login fetches the login page, lifts the CSRF token out of the form and
// posts the credentials. A redirect response counts as success, as does a
// page that already looks like the dashboard.
func (c *Client) Login(ctx context.Context, username, password string) bool {
	token, ok := c.fetchCSRFToken(ctx)
	if !ok {
		return false
	}

	form := url.Values{
		"username": {username},
		"password": {password},
		"_token":   {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("portal login request failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		c.authenticated = true
	case resp.StatusCode == http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		lower := strings.ToLower(string(body))
		c.authenticated = strings.Contains(lower, "dashboard") || strings.Contains(lower, "welcome")
	default:
		c.authenticated = false
	}

	slog.Info("portal login", "user", username, "authenticated", c.authenticated)
	return c.authenticated
}

func (c *Client) fetchCSRFToken(ctx context.Context) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/login", nil)
	if err != nil {
		return "", false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("portal login page unavailable", "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", false
	}

	m := csrfRe.FindSubmatch(body)
	if m == nil {
		// Some deployments run without CSRF protection.
		return "", true
	}
	return string(m[1]), true
}

// listEnvelope tolerates the portal's three response shapes: a bare array,
// {"data": [...]}, or a keyed list.
func decodeList(body []byte, key string, out any) error {
	if err := json.Unmarshal(body, out); err == nil {
		return nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("unexpected payload shape: %w", err)
	}
	if raw, ok := envelope["data"]; ok {
		return json.Unmarshal(raw, out)
	}
	if raw, ok := envelope[key]; ok {
		return json.Unmarshal(raw, out)
	}
	return fmt.Errorf("no %q list in payload", key)
}

func (c *Client) fetchList(ctx context.Context, path, key string, out any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("portal fetch failed", "path", path, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return false
	}
	if err := decodeList(body, key, out); err != nil {
		slog.Debug("portal payload rejected", "path", path, "error", err)
		return false
	}
	return true
}

// employeePayload tolerates the portal's mixed Vietnamese/English keys.
type employeePayload struct {
	ID        string      `json:"employee_id"`
	FullName  string      `json:"full_name"`
	HoTen     string      `json:"ho_ten"`
	Position  string      `json:"position"`
	ChucVu    string      `json:"chuc_vu"`
	Salary    json.Number `json:"salary"`
	Luong     json.Number `json:"luong"`
	StartDate string      `json:"start_date"`
	NgayBatDau string     `json:"ngay_bat_dau"`
	Status    string      `json:"status"`
	TrangThai string      `json:"trang_thai"`
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func number(values ...json.Number) float64 {
	for _, v := range values {
		if v == "" {
			continue
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return 0
}

// FetchEmployees returns the employee list for taxID, or an empty list when
// a required login is missing or the portal is unusable.
func (c *Client) FetchEmployees(ctx context.Context, taxID string) []domain.Employee {
	if c.requireAuth && !c.authenticated {
		return nil
	}

	var payload []employeePayload
	if !c.fetchList(ctx, "/api/employees?mst="+url.QueryEscape(taxID), "employees", &payload) {
		return nil
	}

	employees := make([]domain.Employee, 0, len(payload))
	for i, p := range payload {
		id := p.ID
		if id == "" {
			id = fmt.Sprintf("EMP_%03d_%s", i+1, taxID)
		}
		status := firstOf(p.Status, p.TrangThai, domain.EmployeeActive)
		employees = append(employees, domain.Employee{
			ID:        id,
			FullName:  firstOf(p.FullName, p.HoTen),
			Position:  firstOf(p.Position, p.ChucVu),
			Salary:    number(p.Salary, p.Luong),
			StartDate: firstOf(p.StartDate, p.NgayBatDau),
			Status:    status,
		})
	}
	return employees
}

type contributionPayload struct {
	ID         string      `json:"contribution_id"`
	EmployeeID string      `json:"employee_id"`
	Amount     json.Number `json:"contribution_amount"`
	SoTien     json.Number `json:"so_tien"`
	Date       string      `json:"contribution_date"`
	NgayDong   string      `json:"ngay_dong"`
	Type       string      `json:"contribution_type"`
	LoaiDong   string      `json:"loai_dong"`
}

// FetchContributions returns the contribution list for taxID.
func (c *Client) FetchContributions(ctx context.Context, taxID string) []domain.Contribution {
	if c.requireAuth && !c.authenticated {
		return nil
	}

	var payload []contributionPayload
	if !c.fetchList(ctx, "/api/contributions?mst="+url.QueryEscape(taxID), "contributions", &payload) {
		return nil
	}

	contributions := make([]domain.Contribution, 0, len(payload))
	for i, p := range payload {
		id := p.ID
		if id == "" {
			id = fmt.Sprintf("CONT_%03d_%s", i+1, taxID)
		}
		contributions = append(contributions, domain.Contribution{
			ID:         id,
			EmployeeID: p.EmployeeID,
			Amount:     number(p.Amount, p.SoTien),
			Date:       firstOf(p.Date, p.NgayDong),
			Type:       firstOf(p.Type, p.LoaiDong, "social_insurance"),
		})
	}
	return contributions
}

type claimPayload struct {
	ID         string      `json:"claim_id"`
	EmployeeID string      `json:"employee_id"`
	Type       string      `json:"claim_type"`
	LoaiYeuCau string      `json:"loai_yeu_cau"`
	Amount     json.Number `json:"claim_amount"`
	SoTien     json.Number `json:"so_tien"`
	Date       string      `json:"claim_date"`
	NgayYeuCau string      `json:"ngay_yeu_cau"`
	Status     string      `json:"status"`
	TrangThai  string      `json:"trang_thai"`
}

// FetchClaims returns the claim list for taxID.
func (c *Client) FetchClaims(ctx context.Context, taxID string) []domain.Claim {
	if c.requireAuth && !c.authenticated {
		return nil
	}

	var payload []claimPayload
	if !c.fetchList(ctx, "/api/claims?mst="+url.QueryEscape(taxID), "claims", &payload) {
		return nil
	}

	claims := make([]domain.Claim, 0, len(payload))
	for i, p := range payload {
		id := p.ID
		if id == "" {
			id = fmt.Sprintf("CLAIM_%03d_%s", i+1, taxID)
		}
		claims = append(claims, domain.Claim{
			ID:         id,
			EmployeeID: p.EmployeeID,
			Type:       firstOf(p.Type, p.LoaiYeuCau, domain.ClaimMedical),
			Amount:     number(p.Amount, p.SoTien),
			Date:       firstOf(p.Date, p.NgayYeuCau),
			Status:     firstOf(p.Status, p.TrangThai, domain.ClaimPending),
		})
	}
	return claims
}

type hospitalPayload struct {
	ID          string   `json:"hospital_id"`
	Name        string   `json:"hospital_name"`
	TenBenhVien string   `json:"ten_benh_vien"`
	Address     string   `json:"address"`
	DiaChi      string   `json:"dia_chi"`
	Phone       string   `json:"phone"`
	DienThoai   string   `json:"dien_thoai"`
	Specialties []string `json:"specialties"`
	ChuyenKhoa  []string `json:"chuyen_khoa"`
}

// FetchHospitals returns the registered hospital list for taxID.
func (c *Client) FetchHospitals(ctx context.Context, taxID string) []domain.Hospital {
	if c.requireAuth && !c.authenticated {
		return nil
	}

	var payload []hospitalPayload
	if !c.fetchList(ctx, "/api/hospitals?mst="+url.QueryEscape(taxID), "hospitals", &payload) {
		return nil
	}

	hospitals := make([]domain.Hospital, 0, len(payload))
	for i, p := range payload {
		id := p.ID
		if id == "" {
			id = fmt.Sprintf("HOSP_%03d", i+1)
		}
		specialties := p.Specialties
		if len(specialties) == 0 {
			specialties = p.ChuyenKhoa
		}
		hospitals = append(hospitals, domain.Hospital{
			ID:          id,
			Name:        firstOf(p.Name, p.TenBenhVien),
			Address:     firstOf(p.Address, p.DiaChi),
			Phone:       firstOf(p.Phone, p.DienThoai),
			Specialties: specialties,
		})
	}
	return hospitals
}
