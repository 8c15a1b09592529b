package gmerchant

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0"?>
<rss version="2.0" xmlns:g="http://base.google.com/ns/1.0">
	<channel>
		<title>AudioWorx Store</title>
		<link>https://www.audioworx.co.za</link>
		<item>
			<g:id>ESQ-AMP-900</g:id>
			<title>Reference Amplifier</title>
			<description>Dual-mono reference amplifier.</description>
			<link>https://www.audioworx.co.za/products/esq-amp-900</link>
			<g:image_link>https://www.audioworx.co.za/img/esq-amp-900.jpg</g:image_link>
			<g:price>27599.00 ZAR</g:price>
			<g:availability>in stock</g:availability>
			<g:brand>Denon</g:brand>
			<g:mpn>RA-900</g:mpn>
			<g:condition>new</g:condition>
			<g:product_type>Amplifiers</g:product_type>
		</item>
		<item>
			<g:id>AWX-CBL-2M</g:id>
			<title>Interconnect Cable 2m</title>
			<g:price>499.00 ZAR</g:price>
			<g:availability>out of stock</g:availability>
		</item>
	</channel>
</rss>`

func TestParseFeed(t *testing.T) {
	feed, err := ParseFeed(strings.NewReader(feedXML))
	require.NoError(t, err)

	assert.Equal(t, "AudioWorx Store", feed.Channel.Title)
	require.Len(t, feed.Channel.Items, 2)

	amp := feed.Channel.Items[0]
	assert.Equal(t, "ESQ-AMP-900", amp.ID)
	assert.Equal(t, "Reference Amplifier", amp.Title)
	assert.Equal(t, "27599.00 ZAR", amp.Price)
	assert.Equal(t, "in stock", amp.Availability)
	assert.Equal(t, "Denon", amp.Brand)
	assert.Equal(t, "RA-900", amp.MPN)
	assert.Equal(t, "Amplifiers", amp.ProductType)
	assert.Equal(t, "https://www.audioworx.co.za/img/esq-amp-900.jpg", amp.ImageLink)

	cable := feed.Channel.Items[1]
	assert.Equal(t, "AWX-CBL-2M", cable.ID)
	assert.Equal(t, "out of stock", cable.Availability)
}

func TestParseFeed_Malformed(t *testing.T) {
	_, err := ParseFeed(strings.NewReader("<rss><channel><item>"))
	require.Error(t, err)
}

func TestFetchFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feeds/google-merchant.xml", r.URL.Path)
		fmt.Fprint(w, feedXML)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/feeds/google-merchant.xml")

	feed, err := client.FetchFeed(context.Background())
	require.NoError(t, err)
	assert.Len(t, feed.Channel.Items, 2)
}

func TestFetchFeed_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/feed.xml")

	_, err := client.FetchFeed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
