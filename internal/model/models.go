package model

// All lists every table the service owns, in migration order.
func All() []interface{} {
	return []interface{}{
		&RecordSequence{},
		&Ticket{},
		&Meeting{},
		&DocumentChunk{},
	}
}
