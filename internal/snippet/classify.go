package snippet

import (
	"github.com/hpungsan/atext2csv/internal/tree"
)

// Field keys of the .atext schema. Nodes of every kind share one numeric key
// space.
const (
	KeyUUID        = "0"
	KeyTrigger     = "1"
	KeyName        = "2"
	KeyType        = "3"
	KeyContent     = "4"
	KeyRichContent = "5"
	KeyHotkey      = "8"
	KeyTags        = "10"
	KeyCreated     = "12"
	// Key "13" is reused: a group keeps its children there, a snippet its
	// modification time. Classify decides which reading applies.
	KeyChildren = "13"
	KeyModified = "13"
	KeyGroupFlag   = "99"
)

// UnnamedGroup is the display name of a group node without a name.
const UnnamedGroup = "Unnamed Group"

// Node is a classified tree node: either a Group or a Leaf.
type Node interface {
	isNode()
}

// Group is a folder of snippets and subgroups.
type Group struct {
	Name     string
	Children []*tree.Value
}

// Leaf is a single snippet with its fields extracted.
type Leaf struct {
	UUID        string
	Triggers    string
	Name        string
	Type        string
	Content     string
	RichContent string
	Hotkey      string
	Tags        string
	Created     string
	Modified    string
}

func (Group) isNode() {}
func (Leaf) isNode()  {}

// Classify decides whether v is a group or a snippet and reads it
// accordingly. It returns false when v is not a map.
//
// The format has no node type tag. A node is a group when its flag field is 1,
// or when its key "13" holds a non-empty list whose first element is a map.
// Snippets reuse key "13" for their modification timestamp, so the value shape
// is what tells the two apart. This rule was reverse-engineered from real
// files; keep it exactly as is.
func Classify(v *tree.Value) (Node, bool) {
	if !v.IsMap() {
		return nil, false
	}
	if isGroup(v) {
		return readGroup(v), true
	}
	return readLeaf(v), true
}

func isGroup(v *tree.Value) bool {
	if isFlagSet(v.Get(KeyGroupFlag)) {
		return true
	}
	children := v.Get(KeyChildren).Items()
	return len(children) > 0 && children[0].IsMap()
}

// isFlagSet reports whether v equals 1. A boolean true compares equal to 1 in
// the application that writes these files.
func isFlagSet(v *tree.Value) bool {
	if n, ok := v.AsNumber(); ok {
		return n == 1
	}
	b, ok := v.AsBool()
	return ok && b
}

func readGroup(v *tree.Value) Group {
	name := UnnamedGroup
	if raw, ok := v.Lookup(KeyName); ok && !raw.IsNull() {
		name = Text(raw)
	}
	return Group{
		Name:     name,
		Children: v.Get(KeyChildren).Items(),
	}
}

func readLeaf(v *tree.Value) Leaf {
	return Leaf{
		UUID:        Text(v.Get(KeyUUID)),
		Triggers:    JoinList(v.Get(KeyTrigger)),
		Name:        Text(v.Get(KeyName)),
		Type:        Text(v.Get(KeyType)),
		Content:     Text(v.Get(KeyContent)),
		RichContent: Text(v.Get(KeyRichContent)),
		Hotkey:      Text(v.Get(KeyHotkey)),
		Tags:        JoinList(v.Get(KeyTags)),
		Created:     FormatTimestamp(v.Get(KeyCreated)),
		Modified:    FormatTimestamp(v.Get(KeyModified)),
	}
}

// Record builds the output record for the leaf inside group.
func (l Leaf) Record(group string) Record {
	return Record{
		Trigger:     l.Triggers,
		Content:     l.Content,
		RichContent: l.RichContent,
		Type:        l.Type,
		TypeLabel:   TypeLabel(l.Type),
		Name:        l.Name,
		Group:       group,
		Hotkey:      l.Hotkey,
		Tags:        l.Tags,
		UUID:        l.UUID,
		Created:     l.Created,
		Modified:    l.Modified,
	}
}
