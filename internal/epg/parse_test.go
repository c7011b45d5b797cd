package epg

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overscan-labs/epgrid/internal/model"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<tv generator-info-name="testgen">
  <channel id="DasErste.de">
    <display-name>Das Erste</display-name>
    <icon src="https://example.org/logos/daserste.png"/>
    <url>https://www.daserste.de</url>
  </channel>
  <channel id="ZDF.de">
    <display-name>ZDF</display-name>
  </channel>
  <programme start="20240101060000 +0100" stop="20240101063000 +0100" channel="DasErste.de">
    <title>Morgenmagazin</title>
    <sub-title>Nachrichten am Morgen</sub-title>
    <desc>Ein Magazin mit Nachrichten
            und Wetter
            aus Berlin.</desc>
    <credits>
      <director>Maria Muster</director>
      <actor>Hans Beispiel</actor>
      <actor>Erika Probe</actor>
    </credits>
  </programme>
  <programme start="20240101050000 +0100" stop="20240101060000 +0100" channel="ZDF.de">
    <title>Frühstücksfernsehen</title>
  </programme>
</tv>`

func TestParseRoundTrip(t *testing.T) {
	channels, programmes, err := Parser{}.Parse(strings.NewReader(sampleFeed))
	require.NoError(t, err)

	require.Len(t, channels, 2)
	first := channels[0]
	assert.Equal(t, "DasErste.de", first.ID)
	assert.Equal(t, "Das Erste", first.DisplayName)
	require.NotNil(t, first.Icon)
	assert.Equal(t, "https://example.org/logos/daserste.png", *first.Icon)
	require.NotNil(t, first.URL)
	assert.Equal(t, "https://www.daserste.de", *first.URL)

	second := channels[1]
	assert.Equal(t, "ZDF.de", second.ID)
	assert.Nil(t, second.Icon)
	assert.Nil(t, second.URL)

	require.Len(t, programmes, 2)
	// the 05:00 programme sorts before the 06:00 one
	morgen := programmes[1]
	assert.Equal(t, "DasErste.de", morgen.ChannelID)
	assert.Equal(t, "Morgenmagazin", morgen.Title)
	require.NotNil(t, morgen.SubTitle)
	assert.Equal(t, "Nachrichten am Morgen", *morgen.SubTitle)
	require.NotNil(t, morgen.Desc)
	assert.Equal(t, "Ein Magazin mit Nachrichten und Wetter aus Berlin.", *morgen.Desc)
	assert.Equal(t, []model.Credit{
		{Role: "director", Name: "Maria Muster"},
		{Role: "actor", Name: "Hans Beispiel"},
		{Role: "actor", Name: "Erika Probe"},
	}, morgen.Credits)
}

func TestParsePreservesAbsoluteInstant(t *testing.T) {
	channels, programmes, err := Parser{}.Parse(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	require.Len(t, channels, 2)
	require.Len(t, programmes, 2)

	// 06:00 at +0100 is 05:00 UTC; the offset must not be dropped
	want := time.Date(2024, 1, 1, 5, 0, 0, 0, time.UTC)
	assert.True(t, programmes[1].Start.Equal(want), "start %s != %s", programmes[1].Start, want)
	assert.True(t, programmes[1].Start.Before(programmes[1].Stop))
}

func TestParseSortsProgrammesByStart(t *testing.T) {
	const feed = `<tv>
  <channel id="X"><display-name>X</display-name></channel>
  <programme start="20240101060000 +0000" stop="20240101070000 +0000" channel="X"><title>later</title></programme>
  <programme start="20240101050000 +0000" stop="20240101060000 +0000" channel="X"><title>earlier</title></programme>
</tv>`

	_, programmes, err := Parser{}.Parse(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, programmes, 2)
	assert.Equal(t, "earlier", programmes[0].Title)
	assert.Equal(t, "later", programmes[1].Title)
}

func TestParseLastOccurrenceWins(t *testing.T) {
	const feed = `<tv>
  <channel id="X">
    <display-name>Old Name</display-name>
    <display-name>New Name</display-name>
  </channel>
  <programme start="20240101060000 +0000" stop="20240101070000 +0000" channel="X">
    <title>First Title</title>
    <title>Second Title</title>
  </programme>
</tv>`

	channels, programmes, err := Parser{}.Parse(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, channels, 1)
	require.Len(t, programmes, 1)
	assert.Equal(t, "New Name", channels[0].DisplayName)
	assert.Equal(t, "Second Title", programmes[0].Title)
}

func TestParseMalformedFeed(t *testing.T) {
	_, _, err := Parser{}.Parse(strings.NewReader("this is not xml <<<"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedFeed))
}

func TestParseStrictMissingFields(t *testing.T) {
	cases := []struct {
		name  string
		feed  string
		field string
	}{
		{
			name:  "channel without id",
			feed:  `<tv><channel><display-name>X</display-name></channel></tv>`,
			field: "id",
		},
		{
			name:  "programme without channel",
			feed:  `<tv><programme start="20240101060000 +0000" stop="20240101070000 +0000"><title>x</title></programme></tv>`,
			field: "channel",
		},
		{
			name:  "programme without start",
			feed:  `<tv><programme stop="20240101070000 +0000" channel="X"><title>x</title></programme></tv>`,
			field: "start",
		},
		{
			name:  "programme without stop",
			feed:  `<tv><programme start="20240101060000 +0000" channel="X"><title>x</title></programme></tv>`,
			field: "stop",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parser{Strict: true}.Parse(strings.NewReader(tc.feed))
			require.Error(t, err)

			var missing *MissingFieldError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tc.field, missing.Field)
		})
	}
}

func TestParseStrictInvalidTimestamp(t *testing.T) {
	const feed = `<tv><programme start="2024-01-01T06:00:00Z" stop="20240101070000 +0000" channel="X"><title>x</title></programme></tv>`

	_, _, err := Parser{Strict: true}.Parse(strings.NewReader(feed))
	require.Error(t, err)

	var invalid *InvalidTimestampError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "start", invalid.Field)
	assert.Equal(t, "2024-01-01T06:00:00Z", invalid.Value)
}

func TestParseTolerantSkipsBadElements(t *testing.T) {
	const feed = `<tv>
  <channel id="X"><display-name>X</display-name></channel>
  <channel><display-name>no id</display-name></channel>
  <programme start="garbage" stop="20240101070000 +0000" channel="X"><title>bad</title></programme>
  <programme start="20240101060000 +0000" stop="20240101070000 +0000" channel="X"><title>good</title></programme>
</tv>`

	channels, programmes, err := Parser{}.Parse(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, channels, 1)
	require.Len(t, programmes, 1)
	assert.Equal(t, "good", programmes[0].Title)
}
