package pcluster

import "strings"

type LogStream struct {
	LogStreamName       string `json:"logStreamName"`
	CreationTime        string `json:"creationTime,omitempty"`
	FirstEventTimestamp string `json:"firstEventTimestamp,omitempty"`
	LastEventTimestamp  string `json:"lastEventTimestamp,omitempty"`
	LastIngestionTime   string `json:"lastIngestionTime,omitempty"`
}

type LogStreamsPage struct {
	LogStreams []LogStream `json:"logStreams"`
	NextToken  string      `json:"nextToken,omitempty"`
}

// LogStreamView splits a cluster log stream name, which has the form
// hostname.instanceId.logIdentifier. NodeType stays nil when the head node
// is unknown.
type LogStreamView struct {
	LogStreamName      string    `json:"logStreamName"`
	Hostname           string    `json:"hostname"`
	InstanceId         string    `json:"instanceId"`
	LogIdentifier      string    `json:"logIdentifier"`
	LastEventTimestamp string    `json:"lastEventTimestamp,omitempty"`
	NodeType           *NodeType `json:"nodeType"`
}

type LogEvent struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type LogEventsPage struct {
	Events    []LogEvent `json:"events"`
	NextToken string     `json:"nextToken,omitempty"`
	PrevToken string     `json:"prevToken,omitempty"`
}

type LogEventsQuery struct {
	StartTime     string
	EndTime       string
	StartFromHead *bool
	Limit         int
	NextToken     string
}

func NewLogStreamView(stream LogStream) *LogStreamView {
	view := &LogStreamView{
		LogStreamName:      stream.LogStreamName,
		LastEventTimestamp: stream.LastEventTimestamp,
	}
	parts := strings.SplitN(stream.LogStreamName, ".", 3)
	if len(parts) > 0 {
		view.Hostname = parts[0]
	}
	if len(parts) > 1 {
		view.InstanceId = parts[1]
	}
	if len(parts) > 2 {
		view.LogIdentifier = parts[2]
	}
	return view
}

// WithNodeType tags a view as coming from the head node or a compute node.
func (view *LogStreamView) WithNodeType(headNode *Instance) *LogStreamView {
	if headNode == nil {
		view.NodeType = nil
		return view
	}
	nodeType := NodeTypeComputeNode
	if headNode.InstanceId == view.InstanceId {
		nodeType = NodeTypeHeadNode
	}
	view.NodeType = &nodeType
	return view
}
