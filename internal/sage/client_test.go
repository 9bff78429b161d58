package sage

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stocktrack-backend/internal/config"
	"stocktrack-backend/internal/models"
)

func testConfig(endpoint string) *config.Config {
	return &config.Config{
		SageEndpoint:       endpoint,
		SageSenderID:       "sender",
		SageSenderPassword: "s3cret&pass",
		SageCompanyID:      "ACME",
		SageUserID:         "api_user",
		SageUserPassword:   "p<w>d",
	}
}

func TestConfigured(t *testing.T) {
	if NewClient(&config.Config{}).Configured() {
		t.Fatal("empty credentials must not report configured")
	}
	if !NewClient(testConfig("http://example.invalid")).Configured() {
		t.Fatal("full credentials must report configured")
	}
}

func TestBuildRequestEscapesCredentials(t *testing.T) {
	client := NewClient(testConfig("http://example.invalid"))
	req := client.buildRequest("<getAPISession></getAPISession>")

	if !strings.Contains(req, "<password>s3cret&amp;pass</password>") {
		t.Error("sender password not XML-escaped")
	}
	if !strings.Contains(req, "<password>p&lt;w&gt;d</password>") {
		t.Error("user password not XML-escaped")
	}
	if !strings.Contains(req, "<controlid>") {
		t.Error("controlid missing")
	}
	if !strings.Contains(req, "<function controlid=") {
		t.Error("function block missing")
	}
}

func TestTestConnection(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		io.WriteString(w, "<response><operation><result><status>success</status></result></operation></response>")
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	if err := client.TestConnection(); err != nil {
		t.Fatalf("TestConnection: %v", err)
	}
	if !strings.Contains(gotBody, "<getAPISession></getAPISession>") {
		t.Error("getAPISession function not sent")
	}
}

func TestPostReportsGatewayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<response><errormessage><error><errorno>XL03000006</errorno><description></description><description2>Sign-in information is incorrect</description2></error></errormessage></response>`)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	err := client.TestConnection()
	if err == nil {
		t.Fatal("expected error from <errorno> response")
	}
	if !strings.Contains(err.Error(), "Sign-in information is incorrect") {
		t.Fatalf("error = %v, want Intacct description surfaced", err)
	}
}

func TestPostRequiresConfiguration(t *testing.T) {
	client := NewClient(&config.Config{SageEndpoint: "http://example.invalid"})
	if err := client.TestConnection(); err != ErrNotConfigured {
		t.Fatalf("got %v, want ErrNotConfigured", err)
	}
}

func TestSyncItemCreateAndUpdate(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(raw))
		io.WriteString(w, "<response><operation><result><data><ITEM><RECORDNO>42</RECORDNO></ITEM></data></result></operation></response>")
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	item := &models.InventoryItem{Barcode: "100", Name: "Widget & Co"}
	recordNo, err := client.SyncItem(item)
	if err != nil {
		t.Fatalf("SyncItem create: %v", err)
	}
	if recordNo != "42" {
		t.Fatalf("record no = %q, want 42", recordNo)
	}
	if !strings.Contains(bodies[0], "<create><ITEM>") {
		t.Error("unlinked item must use create")
	}
	if !strings.Contains(bodies[0], "Widget &amp; Co") {
		t.Error("item name not XML-escaped")
	}

	item.SageItemID = "42"
	if _, err := client.SyncItem(item); err != nil {
		t.Fatalf("SyncItem update: %v", err)
	}
	if !strings.Contains(bodies[1], "<update><ITEM><RECORDNO>42</RECORDNO>") {
		t.Error("linked item must use update with record number")
	}
}

func TestFetchItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<response><operation><result><data>`+
			`<ITEM><RECORDNO>1</RECORDNO><ITEMID>100</ITEMID><NAME>Widget</NAME></ITEM>`+
			`<ITEM><RECORDNO>2</RECORDNO><ITEMID>101</ITEMID><NAME>Gadget</NAME></ITEM>`+
			`</data></result></operation></response>`)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	items, err := client.FetchItems(100)
	if err != nil {
		t.Fatalf("FetchItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].ItemID != "100" || items[1].Name != "Gadget" {
		t.Fatalf("items = %+v", items)
	}
}

func TestExtractTag(t *testing.T) {
	xml := "<a><description></description><description2>second</description2></a>"
	if got := extractTag(xml, "description2", "description"); got != "second" {
		t.Fatalf("extractTag = %q, want second", got)
	}
	if got := extractTag(xml, "missing"); got != "unknown error" {
		t.Fatalf("extractTag fallback = %q", got)
	}
}
