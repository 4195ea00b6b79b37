package youtube

// SearchResult is one hit from the search endpoint, before detail enrichment.
type SearchResult struct {
	ID           string
	Title        string
	ChannelTitle string
}

// Thumbnails holds the thumbnail URLs the presentation layer renders.
type Thumbnails struct {
	Default string `json:"default,omitempty"`
	Medium  string `json:"medium,omitempty"`
	High    string `json:"high,omitempty"`
}

// Candidate is a fully detailed video as returned by the videos endpoint.
// Duration is the raw PT#H#M#S string and ViewCount the provider's decimal
// string; both are interpreted by the caller.
type Candidate struct {
	ID           string
	Title        string
	Description  string
	ChannelTitle string
	PublishedAt  string
	Thumbnails   Thumbnails
	Duration     string
	ViewCount    string
}

// Wire formats of the Data API v3 responses we read.

type apiThumbnail struct {
	URL string `json:"url"`
}

type apiThumbnails struct {
	Default apiThumbnail `json:"default"`
	Medium  apiThumbnail `json:"medium"`
	High    apiThumbnail `json:"high"`
}

type apiSnippet struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	ChannelTitle string        `json:"channelTitle"`
	PublishedAt  string        `json:"publishedAt"`
	Thumbnails   apiThumbnails `json:"thumbnails"`
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet apiSnippet `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID             string     `json:"id"`
		Snippet        apiSnippet `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}
