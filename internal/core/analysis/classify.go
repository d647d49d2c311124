package analysis

import "strings"

// Topic is the classified subject of a question.
type Topic string

const (
	TopicNoise     Topic = "noise"
	TopicTraffic   Topic = "traffic"
	TopicBuildings Topic = "buildings"
	TopicHeat      Topic = "heat"
	TopicSensors   Topic = "sensors"
	TopicScores    Topic = "scores"
	TopicSummary   Topic = "summary"
	TopicUnknown   Topic = "unknown"
)

type topicRule struct {
	topic    Topic
	keywords []string
}

// topicRules is evaluated top to bottom; the first rule with a matching keyword wins.
// "noise and traffic" is a noise question.
var topicRules = []topicRule{
	{TopicNoise, []string{"noise"}},
	{TopicTraffic, []string{"traffic", "speed"}},
	{TopicBuildings, []string{"building", "height", "tall"}},
	{TopicHeat, []string{"heat", "vulnerability"}},
	{TopicSensors, []string{"sensor"}},
	{TopicScores, []string{"score", "recommend"}},
	{TopicSummary, []string{"summary", "overview"}},
}

// Classify maps a question to a topic by case-insensitive keyword containment.
func Classify(question string) Topic {
	q := strings.ToLower(question)
	for _, r := range topicRules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.topic
			}
		}
	}
	return TopicUnknown
}
