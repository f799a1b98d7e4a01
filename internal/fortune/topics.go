package fortune

// Topic is one entry of the fixed topic catalogue.
type Topic struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

var topics = []Topic{
	{Code: "career", Label: "커리어/진로"},
	{Code: "wealth", Label: "재물/금전운"},
	{Code: "love", Label: "연애/인간관계"},
	{Code: "health", Label: "건강"},
	{Code: "study", Label: "학업/성장"},
	{Code: "overall", Label: "종합운세"},
}

var topicLabels = func() map[string]string {
	m := make(map[string]string, len(topics))
	for _, t := range topics {
		m[t.Code] = t.Label
	}
	return m
}()

// TopicLabel returns the human label for code, or code itself when unknown.
func TopicLabel(code string) string {
	if label, ok := topicLabels[code]; ok {
		return label
	}
	return code
}

// Topics returns a copy of the catalogue in display order.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}
