// Mozilla Public License Version 2.0
// Modify from github.com/anacrolix/torrent/metainfo.

package metainfo

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const xtPrefix = "urn:btih:"

var errMagnetPrefix = errors.New("bad xt parameter prefix")

// Magnet link components.
type Magnet struct {
	InfoHash    Hash       // From "xt"
	DisplayName string     // From "dn" if not empty
	Length      int64      // From "xl" if positive
	Trackers    []string   // From "tr"
	Params      url.Values // All other values, such as "as", "xs", etc
}

// Magnet creates a Magnet from the metainfo.
//
// If displayName is empty, it is the name of the info dictionary.
func (mi MetaInfo) Magnet(displayName string) (m Magnet, err error) {
	info, err := mi.Info()
	if err != nil {
		return
	}

	if displayName == "" {
		displayName = info.Name
	}

	m.InfoHash = mi.InfoHash()
	m.DisplayName = displayName
	m.Length = info.TotalLength()
	m.Trackers = mi.Announces().Unique()
	return
}

// Peers returns the list of the addresses of the peers.
//
// See BEP 9
func (m Magnet) Peers() (peers []HostAddr, err error) {
	vs := m.Params["x.pe"]
	peers = make([]HostAddr, 0, len(vs))
	for _, v := range vs {
		if v == "" {
			continue
		}

		addr, err := ParseHostAddr(v)
		if err != nil {
			return nil, fmt.Errorf("invalid peer address %q: %w", v, err)
		}
		peers = append(peers, addr)
	}
	return
}

// String returns the magnet link.
//
// "xt" is always the first parameter and "urn:btih:" is not escaped,
// as some clients require.
func (m Magnet) String() string {
	vs := make(url.Values, len(m.Params)+3)
	for k, v := range m.Params {
		vs[k] = append([]string(nil), v...)
	}

	if m.DisplayName != "" {
		vs.Set("dn", m.DisplayName)
	}
	if m.Length > 0 {
		vs.Set("xl", strconv.FormatInt(m.Length, 10))
	}
	for _, tr := range m.Trackers {
		vs.Add("tr", tr)
	}

	var sb strings.Builder
	sb.WriteString("magnet:?xt=")
	sb.WriteString(xtPrefix)
	sb.WriteString(m.InfoHash.HexString())
	if len(vs) > 0 {
		sb.WriteByte('&')
		sb.WriteString(vs.Encode())
	}
	return sb.String()
}

// ParseMagnetURI parses Magnet-formatted URIs into a Magnet instance.
func ParseMagnetURI(uri string) (m Magnet, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		err = fmt.Errorf("error parsing uri: %w", err)
		return
	} else if u.Scheme != "magnet" {
		err = fmt.Errorf("unexpected scheme %q", u.Scheme)
		return
	}

	q := u.Query()
	xt := q.Get("xt")
	if !strings.HasPrefix(xt, xtPrefix) {
		err = errMagnetPrefix
		return
	} else if err = m.InfoHash.FromString(xt[len(xtPrefix):]); err != nil {
		err = fmt.Errorf("error parsing infohash %q: %w", xt, err)
		return
	}
	q.Del("xt")

	m.DisplayName = q.Get("dn")
	q.Del("dn")

	if xl := q.Get("xl"); xl != "" {
		if m.Length, err = strconv.ParseInt(xl, 10, 64); err != nil {
			err = fmt.Errorf("error parsing xl %q: %w", xl, err)
			return
		}
	}
	q.Del("xl")

	m.Trackers = q["tr"]
	q.Del("tr")

	if len(q) > 0 {
		m.Params = q
	}
	return
}
