package sage

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stocktrack-backend/internal/config"
	"stocktrack-backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotConfigured: the Sage credentials are absent from the environment.
var ErrNotConfigured = errors.New("sage intacct is not configured")

// Client talks to the Sage Intacct XML gateway. Intacct's API is a single
// POST endpoint that takes a control block, a login block and one or more
// function blocks, all hand-assembled XML.
type Client struct {
	cfg  *config.Config
	http *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.cfg.SageSenderID != "" && c.cfg.SageSenderPassword != "" &&
		c.cfg.SageCompanyID != "" && c.cfg.SageUserID != "" && c.cfg.SageUserPassword != ""
}

func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;",
	)
	return r.Replace(s)
}

// buildRequest wraps function XML in the control and operation envelope.
// controlid must be unique per request, Intacct uses it for idempotency.
func (c *Client) buildRequest(functionXML string) string {
	controlID := uuid.NewString()

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<request>
  <control>
    <senderid>%s</senderid>
    <password>%s</password>
    <controlid>%s</controlid>
    <uniqueid>false</uniqueid>
    <dtdversion>3.0</dtdversion>
  </control>
  <operation>
    <authentication>
      <login>
        <userid>%s</userid>
        <companyid>%s</companyid>
        <password>%s</password>
      </login>
    </authentication>
    <content>
      <function controlid="%s">%s</function>
    </content>
  </operation>
</request>`,
		xmlEscape(c.cfg.SageSenderID), xmlEscape(c.cfg.SageSenderPassword), controlID,
		xmlEscape(c.cfg.SageUserID), xmlEscape(c.cfg.SageCompanyID), xmlEscape(c.cfg.SageUserPassword),
		controlID, functionXML)
}

func (c *Client) post(functionXML string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body := c.buildRequest(functionXML)
	resp, err := c.http.Post(c.cfg.SageEndpoint, "application/xml", strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("sage request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("could not read sage response: %w", err)
	}

	text := string(raw)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sage returned HTTP %d", resp.StatusCode)
	}
	if strings.Contains(text, "<errorno>") {
		return "", fmt.Errorf("sage error: %s", extractTag(text, "description2", "description", "errorno"))
	}

	return text, nil
}

// extractTag pulls the first non-empty value among the given tags.
// Intacct errors are inconsistent about which description field they fill.
func extractTag(xml string, tags ...string) string {
	for _, tag := range tags {
		open, close := "<"+tag+">", "</"+tag+">"
		start := strings.Index(xml, open)
		if start == -1 {
			continue
		}
		start += len(open)
		end := strings.Index(xml[start:], close)
		if end == -1 {
			continue
		}
		if v := strings.TrimSpace(xml[start : start+end]); v != "" {
			return v
		}
	}
	return "unknown error"
}

// TestConnection requests an API session, the cheapest call that proves the
// credentials work.
func (c *Client) TestConnection() error {
	_, err := c.post("<getAPISession></getAPISession>")
	return err
}

// Item is the slim view of an Intacct ITEM record used by the sync UI.
type Item struct {
	RecordNo string `xml:"RECORDNO" json:"record_no"`
	ItemID   string `xml:"ITEMID" json:"item_id"`
	Name     string `xml:"NAME" json:"name"`
}

// FetchItems queries Intacct for inventory items, newest page first.
func (c *Client) FetchItems(pageSize int) ([]Item, error) {
	if pageSize < 1 || pageSize > 1000 {
		pageSize = 100
	}

	fn := fmt.Sprintf(`<readByQuery><object>ITEM</object><fields>RECORDNO,ITEMID,NAME</fields><query></query><pagesize>%d</pagesize></readByQuery>`, pageSize)
	respXML, err := c.post(fn)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		XMLName xml.Name `xml:"response"`
		Items   []Item   `xml:"operation>result>data>ITEM"`
	}
	if err := xml.Unmarshal([]byte(respXML), &parsed); err != nil {
		return nil, fmt.Errorf("could not parse sage item list: %w", err)
	}

	return parsed.Items, nil
}

// SyncItem upserts one inventory item as an Intacct ITEM object and returns
// the Intacct record number. Items already linked get an update, the rest a
// create keyed by barcode.
func (c *Client) SyncItem(item *models.InventoryItem) (string, error) {
	fields := fmt.Sprintf(`<ITEMID>%s</ITEMID>
<NAME>%s</NAME>
<ITEMTYPE>Inventory</ITEMTYPE>
<EXTENDED_DESCRIPTION>%s</EXTENDED_DESCRIPTION>
<UOMGRP>Each</UOMGRP>`,
		xmlEscape(item.Barcode), xmlEscape(item.Name), xmlEscape(item.Description))

	var fn string
	if item.SageItemID != "" {
		fn = fmt.Sprintf("<update><ITEM><RECORDNO>%s</RECORDNO>%s</ITEM></update>", xmlEscape(item.SageItemID), fields)
	} else {
		fn = fmt.Sprintf("<create><ITEM>%s</ITEM></create>", fields)
	}

	respXML, err := c.post(fn)
	if err != nil {
		return "", err
	}

	recordNo := extractTag(respXML, "RECORDNO")
	if recordNo == "unknown error" {
		recordNo = item.SageItemID
	}
	return recordNo, nil
}
