package publisher

// Publisher delivers scraped competition records to downstream consumers.
type Publisher interface {
	// Publish appends a record to the stream for the given site
	Publish(site string, record []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
