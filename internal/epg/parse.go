package epg

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/overscan-labs/epgrid/internal/model"
)

var space = regexp.MustCompile(`\s+`)

// Parser turns raw XMLTV into canonical records. The zero value is the
// tolerant parser: element-level problems are logged and the element is
// skipped. With Strict set, the first bad element aborts the whole parse.
type Parser struct {
	Strict bool
}

// Parse decodes one XMLTV document. Programmes come back stable-sorted
// ascending by start; downstream consumers rely on chronological order.
func (p Parser) Parse(r io.Reader) ([]model.Channel, []model.Programme, error) {
	var doc tvDoc
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}

	channels := make([]model.Channel, 0, len(doc.Channels))
	for _, el := range doc.Channels {
		ch, err := normalizeChannel(el)
		if err != nil {
			if p.Strict {
				return nil, nil, err
			}
			log.Warn().Err(err).Str("channel", el.ID).Msg("skipping channel element")
			continue
		}
		channels = append(channels, ch)
	}

	programmes := make([]model.Programme, 0, len(doc.Programmes))
	for _, el := range doc.Programmes {
		prog, err := normalizeProgramme(el)
		if err != nil {
			if p.Strict {
				return nil, nil, err
			}
			log.Warn().Err(err).Str("channel", el.Channel).Str("start", el.Start).Msg("skipping programme element")
			continue
		}
		programmes = append(programmes, prog)
	}

	sort.SliceStable(programmes, func(i, j int) bool {
		return programmes[i].Start.Before(programmes[j].Start)
	})

	return channels, programmes, nil
}

func normalizeChannel(el channelElem) (model.Channel, error) {
	if el.ID == "" {
		return model.Channel{}, &MissingFieldError{Element: "channel", Field: "id"}
	}

	ch := model.Channel{ID: el.ID}
	if name, ok := last(el.DisplayName); ok {
		ch.DisplayName = name
	}
	if len(el.Icon) > 0 {
		src := el.Icon[len(el.Icon)-1].Src
		ch.Icon = &src
	}
	if u, ok := last(el.URL); ok {
		ch.URL = &u
	}
	return ch, nil
}

func normalizeProgramme(el programmeElem) (model.Programme, error) {
	if el.Channel == "" {
		return model.Programme{}, &MissingFieldError{Element: "programme", Field: "channel"}
	}
	if el.Start == "" {
		return model.Programme{}, &MissingFieldError{Element: "programme", Field: "start"}
	}
	if el.Stop == "" {
		return model.Programme{}, &MissingFieldError{Element: "programme", Field: "stop"}
	}

	start, err := parseTimestamp("start", el.Start)
	if err != nil {
		return model.Programme{}, err
	}
	stop, err := parseTimestamp("stop", el.Stop)
	if err != nil {
		return model.Programme{}, err
	}

	prog := model.Programme{
		ChannelID: el.Channel,
		Start:     start,
		Stop:      stop,
	}
	if title, ok := last(el.Title); ok {
		prog.Title = title
	}
	if sub, ok := last(el.SubTitle); ok {
		prog.SubTitle = &sub
	}
	if desc, ok := last(el.Desc); ok {
		d := collapseWhitespace(desc)
		prog.Desc = &d
	}
	if len(el.Credits) > 0 {
		block := el.Credits[len(el.Credits)-1]
		credits := make([]model.Credit, 0, len(block.Members))
		for _, m := range block.Members {
			credits = append(credits, model.Credit{
				Role: m.XMLName.Local,
				Name: strings.TrimSpace(m.Value),
			})
		}
		prog.Credits = credits
	}
	return prog, nil
}

func parseTimestamp(field, value string) (time.Time, error) {
	t, err := time.Parse(xmltvTime, value)
	if err != nil {
		return time.Time{}, &InvalidTimestampError{Field: field, Value: value, Err: err}
	}
	return t, nil
}

// collapseWhitespace trims the text and folds embedded newlines and the
// feed's indentation runs into single spaces.
func collapseWhitespace(s string) string {
	return space.ReplaceAllString(strings.TrimSpace(s), " ")
}
