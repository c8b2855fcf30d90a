package cache

import (
	"net/url"
	"testing"
)

func TestCacheKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  CacheKey
		want string
	}{
		{
			name: "endpoint only",
			key: CacheKey{
				Upstream: "mtgjson",
				Endpoint: "mtgjson.com/api/v5/Meta.json",
			},
			want: "hexproof:cache:mtgjson:mtgjson.com/api/v5/Meta.json",
		},
		{
			name: "trailing slash trimmed",
			key: CacheKey{
				Upstream: "scryfall",
				Endpoint: "api.scryfall.com/sets/",
			},
			want: "hexproof:cache:scryfall:api.scryfall.com/sets",
		},
		{
			name: "query params sorted",
			key: CacheKey{
				Upstream: "scryfall",
				Endpoint: "api.scryfall.com/cards/search",
				QueryParams: url.Values{
					"q":    []string{"t:goblin"},
					"page": []string{"2"},
				},
			},
			want: "hexproof:cache:scryfall:api.scryfall.com/cards/search:page=2:q=t:goblin",
		},
		{
			name: "repeated query values kept in order",
			key: CacheKey{
				Upstream:    "scryfall",
				Endpoint:    "api.scryfall.com/cards/search",
				QueryParams: url.Values{"q": []string{"a", "b"}},
			},
			want: "hexproof:cache:scryfall:api.scryfall.com/cards/search:q=a:q=b",
		},
		{
			name: "no upstream",
			key:  CacheKey{Endpoint: "example.com/x"},
			want: "hexproof:cache:example.com/x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyFromURL(t *testing.T) {
	u, err := url.Parse("https://api.scryfall.com/cards/search?q=t%3Agoblin&page=2")
	if err != nil {
		t.Fatal(err)
	}

	key := KeyFromURL("scryfall", u)
	if key.Upstream != "scryfall" {
		t.Errorf("Upstream = %q, want scryfall", key.Upstream)
	}
	if key.Endpoint != "api.scryfall.com/cards/search" {
		t.Errorf("Endpoint = %q", key.Endpoint)
	}
	if key.QueryParams.Get("q") != "t:goblin" {
		t.Errorf("q = %q, want t:goblin", key.QueryParams.Get("q"))
	}
}

func TestCacheKey_Determinism(t *testing.T) {
	a, _ := url.Parse("https://api.scryfall.com/cards/search?q=x&page=2&order=set")
	b, _ := url.Parse("https://api.scryfall.com/cards/search?order=set&page=2&q=x")

	for i := 0; i < 50; i++ {
		if KeyFromURL("scryfall", a).String() != KeyFromURL("scryfall", b).String() {
			t.Fatal("keys differ for equivalent URLs")
		}
	}
}
