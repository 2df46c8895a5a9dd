package library

import (
	"fmt"

	"librarydb/schema"
)

// CreateNotification stores a message for a member or staff record.
//
// recipient_id carries no foreign key in the schema (it cannot, pointing at
// two tables), so the insert runs in a transaction that first checks the
// recipient row exists for the declared type. That closes the integrity gap
// at the store level without changing the schema.
func (d *Database) CreateNotification(recipientType RecipientType, recipientID int64, message string) (int64, error) {
	var existsQuery string
	switch recipientType {
	case RecipientMember:
		existsQuery = `SELECT EXISTS(SELECT 1 FROM members WHERE member_id = ?)`
	case RecipientStaff:
		existsQuery = `SELECT EXISTS(SELECT 1 FROM library_staff WHERE staff_id = ?)`
	default:
		return 0, fmt.Errorf("unknown recipient type %q", recipientType)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(d.q(existsQuery), recipientID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("%s %d does not exist", recipientType, recipientID)
	}

	insert := `INSERT INTO notifications (recipient_id, recipient_type, message) VALUES (?, ?, ?)`
	var id int64
	if d.dialect == schema.Postgres {
		err = tx.QueryRow(d.insertQuery(insert, "notification_id"), recipientID, string(recipientType), message).Scan(&id)
		if err != nil {
			return 0, err
		}
	} else {
		res, err := tx.Exec(d.q(insert), recipientID, string(recipientType), message)
		if err != nil {
			return 0, err
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, err
		}
	}
	return id, tx.Commit()
}

// MarkNotificationRead moves a notification to the Read state.
func (d *Database) MarkNotificationRead(id int64) error {
	return d.setNotificationStatus(id, NotificationRead)
}

// ArchiveNotification moves a notification to the Archived state.
func (d *Database) ArchiveNotification(id int64) error {
	return d.setNotificationStatus(id, NotificationArchived)
}

func (d *Database) setNotificationStatus(id int64, status NotificationStatus) error {
	res, err := d.db.Exec(d.q(`UPDATE notifications SET status = ? WHERE notification_id = ?`), string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("notification %d does not exist", id)
	}
	return nil
}

// NotificationsFor lists a recipient's notifications, newest first.
func (d *Database) NotificationsFor(recipientType RecipientType, recipientID int64) ([]*Notification, error) {
	rows, err := d.db.Query(d.q(`
        SELECT notification_id, recipient_id, recipient_type, message, notification_date, status
        FROM notifications
        WHERE recipient_type = ? AND recipient_id = ?
        ORDER BY notification_date DESC, notification_id DESC`),
		string(recipientType), recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.RecipientType, &n.Message, &n.Date, &n.Status); err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}
