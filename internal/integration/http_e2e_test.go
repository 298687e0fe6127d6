//go:build integration || !unit

package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/Bekimoon0043/Hotel-connecter/internal/adapters/http_server"
	redisad "github.com/Bekimoon0043/Hotel-connecter/internal/adapters/redis"
	"github.com/Bekimoon0043/Hotel-connecter/internal/app"
	"github.com/Bekimoon0043/Hotel-connecter/internal/domain"
	mysqlrepo "github.com/Bekimoon0043/Hotel-connecter/internal/storage/mysql"
)

// ---------- helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// call issues a JSON request with an optional bearer token and decodes the
// response into out (when out is non-nil and the status carries a body).
func call(t *testing.T, client *http.Client, method, url, token string, in, out any) int {
	t.Helper()
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	if out != nil && res.StatusCode < 300 && res.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return res.StatusCode
}

func signin(t *testing.T, client *http.Client, base, email, password string) string {
	t.Helper()
	var resp struct {
		Token string             `json:"token"`
		User  domain.CurrentUser `json:"user"`
	}
	if st := call(t, client, http.MethodPost, base+"/v1/auth/signin", "",
		map[string]string{"email": email, "password": password}, &resp); st != http.StatusOK {
		t.Fatalf("signin %s: status %d", email, st)
	}
	if resp.Token == "" {
		t.Fatalf("signin %s: empty token", email)
	}
	return resp.Token
}

// ---------- the test ----------

func TestHTTP_EndToEnd_BookingFlow(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotelconnector",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "hotelconnector")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	// Redis via miniredis: cache and sessions share the connection.
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	sessions := redisad.NewSessions(cache.Client())

	repo := mysqlrepo.New(db)
	catalog := app.NewCatalogService(repo, cache, 15*time.Minute)
	bookings := app.NewBookingService(repo, repo, nil)
	accounts := app.NewAccountService(repo, sessions, "admin@hotelconnector.local", "root-of-all-hotels", 24*time.Hour)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Catalog: catalog, Bookings: bookings, Accounts: accounts})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()
	client := ts.Client()

	// Register an owner and two guests, then sign everyone in.
	for _, u := range []map[string]string{
		{"fullName": "Olive Owner", "email": "owner@example.com", "password": "pw-owner", "role": "owner"},
		{"fullName": "Alice Archer", "email": "alice@example.com", "password": "pw-alice", "role": "booker"},
		{"fullName": "Bob Breve", "email": "bob@example.com", "password": "pw-bob", "role": "booker"},
	} {
		if st := call(t, client, http.MethodPost, ts.URL+"/v1/auth/register", "", u, nil); st != http.StatusCreated {
			t.Fatalf("register %s: status %d", u["email"], st)
		}
	}
	ownerTok := signin(t, client, ts.URL, "owner@example.com", "pw-owner")
	aliceTok := signin(t, client, ts.URL, "alice@example.com", "pw-alice")
	bobTok := signin(t, client, ts.URL, "bob@example.com", "pw-bob")
	adminTok := signin(t, client, ts.URL, "admin@hotelconnector.local", "root-of-all-hotels")

	// Owner lists a hotel with one single-unit room.
	var hotel domain.Hotel
	if st := call(t, client, http.MethodPost, ts.URL+"/v1/hotels", ownerTok, domain.Hotel{
		Name:        "Harbor View",
		Location:    domain.Location{City: "Lisbon", Country: "Portugal"},
		Description: "Quiet rooms above the harbor.",
		Amenities:   []string{"Wifi"},
		RoomTypes: []domain.RoomType{
			{Name: "Single", Price: 100, Beds: 1, MaxGuests: 2, Quantity: 1},
		},
	}, &hotel); st != http.StatusOK {
		t.Fatalf("create hotel: status %d", st)
	}
	if hotel.ID == "" || len(hotel.RoomTypes) != 1 || hotel.RoomTypes[0].ID == "" {
		t.Fatalf("hotel ids not generated: %+v", hotel)
	}
	roomID := hotel.RoomTypes[0].ID

	// Anonymous read with conditional revalidation.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/hotels/"+hotel.ID, nil)
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("get hotel: %v", err)
	}
	etag := res.Header.Get("ETag")
	res.Body.Close()
	if res.StatusCode != http.StatusOK || etag == "" {
		t.Fatalf("get hotel: status %d etag %q", res.StatusCode, etag)
	}
	req, _ = http.NewRequest(http.MethodGet, ts.URL+"/v1/hotels/"+hotel.ID, nil)
	req.Header.Set("If-None-Match", etag)
	res, err = client.Do(req)
	if err != nil {
		t.Fatalf("revalidate: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotModified {
		t.Fatalf("revalidate: status %d, want 304", res.StatusCode)
	}

	// The quote shows one free unit.
	var quotes []app.RoomQuote
	quoteURL := ts.URL + "/v1/hotels/" + hotel.ID + "/quote?checkIn=2026-06-01&checkOut=2026-06-03"
	if st := call(t, client, http.MethodGet, quoteURL, "", nil, &quotes); st != http.StatusOK {
		t.Fatalf("quote: status %d", st)
	}
	if len(quotes) != 1 || quotes[0].Available != 1 || quotes[0].TotalPrice != 200 {
		t.Fatalf("quote = %+v", quotes)
	}

	// Alice books it; Bob collides with a 409.
	makeBooking := func(tok string, name string) (domain.Booking, int) {
		var b domain.Booking
		st := call(t, client, http.MethodPost, ts.URL+"/v1/bookings", tok, app.BookingRequest{
			HotelID:   hotel.ID,
			RoomID:    roomID,
			CheckIn:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			CheckOut:  time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
			Guests:    1,
			GuestName: name,
		}, &b)
		return b, st
	}
	booking, st := makeBooking(aliceTok, "Alice Archer")
	if st != http.StatusCreated || booking.Status != domain.StatusPending || booking.TotalPrice != 200 {
		t.Fatalf("alice booking: status %d, %+v", st, booking)
	}
	if _, st := makeBooking(bobTok, "Bob Breve"); st != http.StatusConflict {
		t.Fatalf("bob booking: status %d, want 409", st)
	}

	// An owner cannot book; an anonymous caller cannot either.
	if _, st := makeBooking(ownerTok, "Olive Owner"); st != http.StatusForbidden {
		t.Fatalf("owner booking: status %d, want 403", st)
	}
	if _, st := makeBooking("", "Nobody"); st != http.StatusUnauthorized {
		t.Fatalf("anonymous booking: status %d, want 401", st)
	}

	// Bob cannot confirm Alice's booking; the owner can.
	statusURL := ts.URL + "/v1/bookings/" + booking.ID + "/status"
	if st := call(t, client, http.MethodPatch, statusURL, bobTok,
		map[string]string{"status": "confirmed"}, nil); st != http.StatusForbidden {
		t.Fatalf("guest confirm: status %d, want 403", st)
	}
	var confirmed domain.Booking
	if st := call(t, client, http.MethodPatch, statusURL, ownerTok,
		map[string]string{"status": "confirmed"}, &confirmed); st != http.StatusOK {
		t.Fatalf("owner confirm: status %d", st)
	}
	if confirmed.Status != domain.StatusConfirmed {
		t.Fatalf("status = %s", confirmed.Status)
	}
	// The booking is closed now.
	if st := call(t, client, http.MethodPatch, statusURL, ownerTok,
		map[string]string{"status": "cancelled"}, nil); st != http.StatusConflict {
		t.Fatalf("re-transition: status %d, want 409", st)
	}

	// Owner dashboard counts the confirmed revenue.
	var dash app.OwnerDashboard
	if st := call(t, client, http.MethodGet, ts.URL+"/v1/owner/dashboard", ownerTok, nil, &dash); st != http.StatusOK {
		t.Fatalf("dashboard: status %d", st)
	}
	if dash.TotalBookings != 1 || dash.ConfirmedRevenue != 200 {
		t.Fatalf("dashboard = %+v", dash)
	}

	// Alice sees her booking; Bob sees none.
	var mine []domain.Booking
	if st := call(t, client, http.MethodGet, ts.URL+"/v1/bookings", aliceTok, nil, &mine); st != http.StatusOK || len(mine) != 1 {
		t.Fatalf("alice bookings: status %d len %d", st, len(mine))
	}
	var his []domain.Booking
	if st := call(t, client, http.MethodGet, ts.URL+"/v1/bookings", bobTok, nil, &his); st != http.StatusOK || len(his) != 0 {
		t.Fatalf("bob bookings: status %d len %d", st, len(his))
	}

	// Admin moderation: full booking and user views.
	var all []domain.Booking
	if st := call(t, client, http.MethodGet, ts.URL+"/v1/admin/bookings", adminTok, nil, &all); st != http.StatusOK || len(all) != 1 {
		t.Fatalf("admin bookings: status %d len %d", st, len(all))
	}
	if st := call(t, client, http.MethodGet, ts.URL+"/v1/admin/bookings", ownerTok, nil, nil); st != http.StatusForbidden {
		t.Fatalf("owner on admin view: status %d, want 403", st)
	}
	var users []domain.StoredUser
	if st := call(t, client, http.MethodGet, ts.URL+"/v1/admin/users", adminTok, nil, &users); st != http.StatusOK || len(users) != 3 {
		t.Fatalf("admin users: status %d len %d", st, len(users))
	}

	// Deleting the hotel cascades to its bookings. Owner may not; admin may.
	if st := call(t, client, http.MethodDelete, ts.URL+"/v1/hotels/"+hotel.ID, ownerTok, nil, nil); st != http.StatusForbidden {
		t.Fatalf("owner delete hotel: status %d, want 403", st)
	}
	if st := call(t, client, http.MethodDelete, ts.URL+"/v1/hotels/"+hotel.ID, adminTok, nil, nil); st != http.StatusNoContent {
		t.Fatalf("admin delete hotel: status %d", st)
	}
	if st := call(t, client, http.MethodGet, ts.URL+"/v1/hotels/"+hotel.ID, "", nil, nil); st != http.StatusNotFound {
		t.Fatalf("get deleted hotel: status %d, want 404", st)
	}
	if st := call(t, client, http.MethodGet, ts.URL+"/v1/bookings", aliceTok, nil, &mine); st != http.StatusOK || len(mine) != 0 {
		t.Fatalf("alice bookings after cascade: status %d len %d", st, len(mine))
	}

	// Sign-out invalidates the token.
	if st := call(t, client, http.MethodPost, ts.URL+"/v1/auth/signout", aliceTok, nil, nil); st != http.StatusNoContent {
		t.Fatalf("signout: status %d", st)
	}
	if st := call(t, client, http.MethodGet, ts.URL+"/v1/bookings", aliceTok, nil, nil); st != http.StatusUnauthorized {
		t.Fatalf("stale token: status %d, want 401", st)
	}
}
