package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Every event table starts with the same three columns: an auto-increment
// id, the global sequence number and a UTC timestamp.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	return append([]*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}, extra...)
}

func eventTable(name string, cols []*schema.Column, indexed ...string) *schema.Table {
	t := &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
	}
	// timestamp is cols[2].
	t.Indexes = append(t.Indexes, &schema.Index{
		Name:    name + "_timestamp",
		Columns: []*schema.Column{cols[2]},
	})
	for _, colName := range indexed {
		for _, c := range cols {
			if c.Name == colName {
				t.Indexes = append(t.Indexes, &schema.Index{
					Name:    name + "_" + colName,
					Columns: []*schema.Column{c},
				})
			}
		}
	}
	return t
}

var (
	sessionEventsTable = eventTable("session_events", eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "participant", Type: field.TypeString},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: "reason", Type: field.TypeString},
		&schema.Column{Name: "trials", Type: field.TypeInt},
		&schema.Column{Name: "correct", Type: field.TypeInt},
		&schema.Column{Name: "final_rank", Type: field.TypeInt},
	), "session_id", "action")

	trialEventsTable = eventTable("trial_events", eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "trial_number", Type: field.TypeInt},
		&schema.Column{Name: "rank", Type: field.TypeInt},
		&schema.Column{Name: "label", Type: field.TypeString},
		&schema.Column{Name: "magnitude", Type: field.TypeFloat64},
		&schema.Column{Name: "correct_answer", Type: field.TypeString},
		&schema.Column{Name: "response", Type: field.TypeString},
		&schema.Column{Name: "correct", Type: field.TypeBool},
		&schema.Column{Name: "transition", Type: field.TypeString},
	), "session_id")

	resultEventsTable = eventTable("result_events", eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "participant", Type: field.TypeString},
		&schema.Column{Name: "final_rank", Type: field.TypeInt},
		&schema.Column{Name: "final_label", Type: field.TypeString},
		&schema.Column{Name: "basis", Type: field.TypeString},
		&schema.Column{Name: "reason", Type: field.TypeString},
		&schema.Column{Name: "ended_by_failure", Type: field.TypeBool},
		&schema.Column{Name: "trials", Type: field.TypeInt},
		&schema.Column{Name: "correct", Type: field.TypeInt},
		&schema.Column{Name: "cleared", Type: field.TypeJSON},
		&schema.Column{Name: "history", Type: field.TypeJSON},
	), "session_id", "participant")

	sequenceTable = func() *schema.Table {
		id := &schema.Column{Name: "id", Type: field.TypeInt}
		return &schema.Table{
			Name: "global_sequence",
			Columns: []*schema.Column{
				id,
				{Name: "next_val", Type: field.TypeInt64, Default: 1},
			},
			PrimaryKey: []*schema.Column{id},
		}
	}()

	tables = []*schema.Table{
		sequenceTable,
		sessionEventsTable,
		trialEventsTable,
		resultEventsTable,
	}
)
