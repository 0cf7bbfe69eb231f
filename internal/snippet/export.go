package snippet

// Columns is the column order used by tabular exports.
var Columns = []string{
	"trigger", "content", "type", "type_label", "group", "name",
	"hotkey", "tags", "created", "modified", "rich_content", "uuid",
}

// Field returns the value of the named column, or "" for unknown names.
func (r Record) Field(name string) string {
	switch name {
	case "trigger":
		return r.Trigger
	case "content":
		return r.Content
	case "rich_content":
		return r.RichContent
	case "type":
		return r.Type
	case "type_label":
		return r.TypeLabel
	case "name":
		return r.Name
	case "group":
		return r.Group
	case "hotkey":
		return r.Hotkey
	case "tags":
		return r.Tags
	case "uuid":
		return r.UUID
	case "created":
		return r.Created
	case "modified":
		return r.Modified
	}
	return ""
}

// Row returns the record's values in Columns order.
func (r Record) Row() []string {
	row := make([]string, len(Columns))
	for i, c := range Columns {
		row[i] = r.Field(c)
	}
	return row
}
