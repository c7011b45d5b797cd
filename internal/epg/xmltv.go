// Package epg normalizes XMLTV guide data into canonical channel and
// programme records and prepares them for storage.
package epg

import "encoding/xml"

// xmltvTime is the timestamp layout used by XMLTV start/stop attributes:
// date and time with an explicit numeric UTC offset.
const xmltvTime = "20060102150405 -0700"

type tvDoc struct {
	XMLName    xml.Name        `xml:"tv"`
	Channels   []channelElem   `xml:"channel"`
	Programmes []programmeElem `xml:"programme"`
}

type channelElem struct {
	ID          string     `xml:"id,attr"`
	DisplayName []string   `xml:"display-name"`
	Icon        []iconElem `xml:"icon"`
	URL         []string   `xml:"url"`
}

// iconElem carries its value in the src attribute, not in character data.
type iconElem struct {
	Src string `xml:"src,attr"`
}

type programmeElem struct {
	Channel  string        `xml:"channel,attr"`
	Start    string        `xml:"start,attr"`
	Stop     string        `xml:"stop,attr"`
	Title    []string      `xml:"title"`
	SubTitle []string      `xml:"sub-title"`
	Desc     []string      `xml:"desc"`
	Credits  []creditsElem `xml:"credits"`
}

// creditsElem keeps its children in document order; the tag name is the
// role ("director", "actor", ...) and the character data the person.
type creditsElem struct {
	Members []creditElem `xml:",any"`
}

type creditElem struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// last returns the final element of a repeated-tag slice, mirroring the
// last-occurrence-wins rule for duplicated children.
func last(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}
