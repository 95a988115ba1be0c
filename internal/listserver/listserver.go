// Package listserver fetches the list of available game servers from a
// Graal listserver: an independent, simpler sibling protocol to the main
// game session (generation-2-style framing, no rolling cipher), reused here
// only for its codec shape.
package listserver

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rebornclient/reborn-go/internal/net/packet"
)

const (
	pliServerlist     = 1
	pliV2EncryptKeyCl = 7

	ploSvrlist = 0
	ploStatus  = 2
	ploSiteurl = 3
	ploError   = 4
	ploUpgurl  = 5
)

// DefaultHost and DefaultPort match the production Graal listserver.
const (
	DefaultHost    = "listserver.graal.in"
	DefaultPort    = 14922
	DefaultTimeout = 10 * time.Second
)

const versionBanner = "GNW30123"
const clientVariant = "newmain"

// ServerEntry is one parsed SVRLIST entry.
type ServerEntry struct {
	Name        string
	Type        string
	Language    string
	Description string
	URL         string
	Version     string
	Players     int
	Host        string
	Port        int
}

// Status carries the out-of-band STATUS/SITEURL/UPGURL/ERROR fields that
// accompany a server list.
type Status struct {
	Status     string
	SiteURL    string
	UpgradeURL string
	Error      string
}

// Client fetches a server list over one short-lived TCP connection.
type Client struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// NewClient returns a Client with DefaultHost/DefaultPort/DefaultTimeout
// filled in for any zero field.
func NewClient(host string, port int, timeout time.Duration) *Client {
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{Host: host, Port: port, Timeout: timeout}
}

// FetchServers connects, authenticates, and reads packets until both a
// server list and a status line have arrived, an ERROR packet arrives, or
// the connection times out or closes — whichever comes first.
func (c *Client) FetchServers(ctx context.Context, account, password string) ([]ServerEntry, Status, error) {
	dialer := net.Dialer{Timeout: c.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", c.Host, c.Port))
	if err != nil {
		return nil, Status{}, fmt.Errorf("listserver: dial: %w", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.Timeout))

	if err := writeVersionPacket(conn); err != nil {
		return nil, Status{}, fmt.Errorf("listserver: version packet: %w", err)
	}
	if err := writeAuthPacket(conn, account, password); err != nil {
		return nil, Status{}, fmt.Errorf("listserver: auth packet: %w", err)
	}

	var (
		servers     []ServerEntry
		status      Status
		haveServers bool
		haveStatus  bool
	)

	for {
		payload, err := readPacket(conn)
		if err != nil {
			if haveServers || haveStatus {
				return servers, status, nil
			}
			return nil, status, fmt.Errorf("listserver: read: %w", err)
		}
		if len(payload) == 0 {
			continue
		}

		switch packet.DecodeGChar(payload[0]) {
		case ploSvrlist:
			servers = parseServerList(payload[1:])
			haveServers = true
			if haveServers && haveStatus {
				return servers, status, nil
			}
		case ploStatus:
			if s, ok := readLengthPrefixedString(payload[1:]); ok {
				status.Status = s
				haveStatus = true
				if haveServers && haveStatus {
					return servers, status, nil
				}
			}
		case ploSiteurl:
			if s, ok := readLengthPrefixedString(payload[1:]); ok {
				status.SiteURL = s
			}
		case ploUpgurl:
			if s, ok := readLengthPrefixedString(payload[1:]); ok {
				status.UpgradeURL = s
			}
		case ploError:
			if s, ok := readLengthPrefixedString(payload[1:]); ok {
				status.Error = s
			}
			return servers, status, nil
		}
	}
}

func readLengthPrefixedString(b []byte) (string, bool) {
	if len(b) < 1 {
		return "", false
	}
	n := packet.DecodeGChar(b[0])
	if n < 0 || 1+n > len(b) {
		return "", false
	}
	return string(b[1 : 1+n]), true
}

func writeVersionPacket(w io.Writer) error {
	var buf bytes.Buffer
	idByte, _ := packet.EncodeGChar(pliV2EncryptKeyCl)
	keyByte, _ := packet.EncodeGChar(0)
	buf.WriteByte(idByte)
	buf.WriteByte(keyByte)
	buf.WriteString(versionBanner)
	buf.WriteString(clientVariant)
	buf.WriteByte('\n')
	return writeFrame(w, buf.Bytes(), false)
}

func writeAuthPacket(w io.Writer, account, password string) error {
	var buf bytes.Buffer
	idByte, _ := packet.EncodeGChar(pliServerlist)
	buf.WriteByte(idByte)
	accLen, err := packet.EncodeGChar(len(account))
	if err != nil {
		return err
	}
	buf.WriteByte(accLen)
	buf.WriteString(account)
	passLen, err := packet.EncodeGChar(len(password))
	if err != nil {
		return err
	}
	buf.WriteByte(passLen)
	buf.WriteString(password)
	buf.WriteByte('\n')
	return writeFrame(w, buf.Bytes(), true)
}

func writeFrame(w io.Writer, payload []byte, compress bool) error {
	if compress {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(payload); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		payload = buf.Bytes()
	}
	var header [2]byte
	binary.BigEndian.PutUint16(header[:], uint16(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// readPacket reads one length-prefixed frame and transparently inflates it
// if it carries the zlib magic byte. A payload that claims zlib but fails to
// inflate is returned raw, matching the listserver's own lenient decoder.
func readPacket(r io.Reader) ([]byte, error) {
	var header [2]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	length := int(binary.BigEndian.Uint16(header[:]))
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	if len(data) > 0 && data[0] == 0x78 {
		if zr, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
			if inflated, err := io.ReadAll(zr); err == nil {
				return inflated, nil
			}
		}
	}
	return data, nil
}

var (
	serverEndPattern = regexp.MustCompile(`!\d+[,.]?[a-zA-Z0-9.-]+%\d{4,5}`)
	hostPortPattern  = regexp.MustCompile(`!(.+?)%(\d+)`)
	urlPattern       = regexp.MustCompile(`https?://[^\s,!%]+`)
	versionPattern   = regexp.MustCompile(`[Vv]ersion:?\s*([\d.]+(?:-[\w\s]+)?)`)
	trailingDigits   = regexp.MustCompile(`[\d,]+$`)
	leadingNonDigits = regexp.MustCompile(`^([^\d]+)`)
)

var languageMarkers = []string{"'English", "'Finnish", "'Deutsch", "'Español", "'Français"}

// parseServerList decodes the SVRLIST body, tolerating the listserver's
// known malformed concatenation by locating each server's end with
// serverEndPattern rather than trusting embedded length fields.
func parseServerList(data []byte) []ServerEntry {
	if len(data) == 0 {
		return nil
	}
	count := packet.DecodeGChar(data[0])
	pos := 1

	text := string(data[pos:])
	matches := serverEndPattern.FindAllStringIndex(text, -1)

	var servers []ServerEntry
	start := pos
	for i, m := range matches {
		if i >= count {
			break
		}
		end := pos + m[1]
		if end > len(data) {
			end = len(data)
		}
		if entry, ok := parseSingleServer(data[start:end]); ok {
			servers = append(servers, entry)
		}
		start = end
	}
	return servers
}

func parseSingleServer(data []byte) (ServerEntry, bool) {
	pos := 0
	if pos < len(data) && data[pos] == 40 {
		pos++
	}
	if pos >= len(data) {
		return ServerEntry{}, false
	}
	combinedLen := int(data[pos])
	pos++
	if pos+combinedLen > len(data) {
		combinedLen = len(data) - pos
	}
	combined := string(data[pos : pos+combinedLen])
	pos += combinedLen
	remaining := string(data[pos:])
	fullText := combined + remaining

	name, language := "", "English"
	for _, marker := range languageMarkers {
		if idx := strings.Index(combined, marker); idx >= 0 {
			name = combined[:idx]
			language = marker[1:]
			break
		}
	}
	if name == "" {
		if idx := strings.Index(combined, "'"); idx >= 0 {
			name = combined[:idx]
		} else if m := leadingNonDigits.FindStringSubmatch(combined); m != nil {
			name = m[1]
		} else {
			name = combined
		}
	}
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "(")
	if len(name) > 1 && name[0] < 32 {
		name = name[1:]
	}

	serverType := ""
	if len(name) >= 2 && name[1] == ' ' {
		serverType = name[:1]
		name = name[2:]
	}

	entry := ServerEntry{
		Name:        name,
		Type:        serverType,
		Language:    language,
		Description: "Server",
		Host:        "unknown",
		Port:        14802,
	}

	if m := hostPortPattern.FindStringSubmatch(fullText); m != nil {
		middle := m[1]
		if port, err := strconv.Atoi(m[2]); err == nil {
			entry.Port = port
		}
		switch {
		case strings.Contains(middle, ","):
			parts := strings.SplitN(middle, ",", 2)
			if len(parts) >= 2 && isAllDigits(parts[0]) {
				entry.Players, _ = strconv.Atoi(parts[0])
				entry.Host = parts[1]
			}
		default:
			i := 0
			for i < len(middle) && middle[i] >= '0' && middle[i] <= '9' {
				i++
			}
			if i > 0 && i < len(middle) {
				playersStr, hostStr := middle[:i], middle[i:]
				switch {
				case hasAlpha(hostStr):
					entry.Players, _ = strconv.Atoi(playersStr)
					entry.Host = hostStr
				case strings.Count(middle, ".") >= 4:
					if dot := strings.Index(middle, "."); dot > 0 {
						entry.Players, _ = strconv.Atoi(middle[:dot])
						entry.Host = middle[dot+1:]
					}
				default:
					entry.Players, _ = strconv.Atoi(playersStr)
					entry.Host = hostStr
				}
			} else {
				entry.Host = middle
			}
		}
	}

	if m := urlPattern.FindString(fullText); m != "" {
		entry.URL = m
	}
	if m := versionPattern.FindString(fullText); m != "" {
		entry.Version = m
	}
	if re, err := regexp.Compile(regexp.QuoteMeta(language) + `([^!%]+?)(?:https?://|\d+Version:|$)`); err == nil {
		if m := re.FindStringSubmatch(fullText); m != nil {
			desc := strings.TrimSpace(m[1])
			desc = trailingDigits.ReplaceAllString(desc, "")
			entry.Description = strings.TrimSpace(desc)
		}
	}

	return entry, true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasAlpha(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
