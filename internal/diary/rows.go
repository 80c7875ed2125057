// Package diary reshapes fetched diary data into table rows and renders
// them as a PNG for the chat.
package diary

import "github.com/ikarpovich/nsbot/internal/netschool"

// Separator marks the boundary between calendar days in the rendered table.
const Separator = "-------------------------------------------------------"

const noMark = "Нет оценки"

// Row is one rendered table line: a dated assignment or a day separator
// (Date == Separator, other fields empty).
type Row struct {
	Date    string
	Subject string
	Content string
	Mark    string
}

// Rows flattens the nested day/lesson/assignment structure into table rows
// in day order, one row per assignment, with a separator row after every
// day. Days without assignments still contribute their separator.
func Rows(d *netschool.Diary) []Row {
	var rows []Row
	for _, day := range d.Days {
		date := day.Date.Format("02.01.2006")
		for _, lesson := range day.Lessons {
			for _, a := range lesson.Assignments {
				mark := a.Mark
				if mark == "" {
					mark = noMark
				}
				rows = append(rows, Row{
					Date:    date,
					Subject: lesson.Subject,
					Content: a.Content,
					Mark:    mark,
				})
			}
		}
		rows = append(rows, Row{Date: Separator})
	}
	return rows
}
