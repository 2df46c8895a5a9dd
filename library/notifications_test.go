package library

import "testing"

func TestNotificationRecipientValidation(t *testing.T) {
	db := tempDB(t)
	_, memberID := seedBookAndMember(t, db)
	staffID, _ := db.AddStaff("Irulan", "Corrino", "irulan@library.example", "", "Archivist", date(t, "2023-06-01"))

	if _, err := db.CreateNotification(RecipientMember, memberID, "Your book is due"); err != nil {
		t.Fatalf("member notification: %v", err)
	}
	if _, err := db.CreateNotification(RecipientStaff, staffID, "Shift change"); err != nil {
		t.Fatalf("staff notification: %v", err)
	}

	// The schema cannot enforce the polymorphic reference, so the store does:
	// an id valid for one type is not valid for the other.
	if _, err := db.CreateNotification(RecipientMember, 99999, "ghost"); err == nil {
		t.Fatal("want error for nonexistent member recipient")
	}
	if _, err := db.CreateNotification(RecipientStaff, memberID+staffID+1000, "ghost"); err == nil {
		t.Fatal("want error for nonexistent staff recipient")
	}
	if _, err := db.CreateNotification("Robot", memberID, "beep"); err == nil {
		t.Fatal("want error for unknown recipient type")
	}
}

func TestNotificationStatusFlow(t *testing.T) {
	db := tempDB(t)
	_, memberID := seedBookAndMember(t, db)

	id, err := db.CreateNotification(RecipientMember, memberID, "Your reservation is ready")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := db.NotificationsFor(RecipientMember, memberID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Status != NotificationSent {
		t.Fatalf("new notification should be Sent, got %+v", list)
	}
	if list[0].Date.IsZero() {
		t.Fatal("notification_date should default to insert time")
	}

	if err := db.MarkNotificationRead(id); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	list, _ = db.NotificationsFor(RecipientMember, memberID)
	if list[0].Status != NotificationRead {
		t.Fatalf("want Read, got %s", list[0].Status)
	}

	if err := db.ArchiveNotification(id); err != nil {
		t.Fatalf("archive: %v", err)
	}
	list, _ = db.NotificationsFor(RecipientMember, memberID)
	if list[0].Status != NotificationArchived {
		t.Fatalf("want Archived, got %s", list[0].Status)
	}

	if err := db.MarkNotificationRead(99999); err == nil {
		t.Fatal("want error for unknown notification")
	}
}

// Members and staff ids live in separate sequences, so the same numeric id
// can belong to both types; the type column keeps the streams apart.
func TestNotificationPolymorphicSeparation(t *testing.T) {
	db := tempDB(t)
	_, memberID := seedBookAndMember(t, db)
	staffID, _ := db.AddStaff("Irulan", "Corrino", "irulan@library.example", "", "", date(t, "2023-06-01"))

	if memberID != staffID {
		t.Fatalf("test assumes matching ids, got member %d staff %d", memberID, staffID)
	}

	if _, err := db.CreateNotification(RecipientMember, memberID, "for the member"); err != nil {
		t.Fatalf("member notification: %v", err)
	}
	if _, err := db.CreateNotification(RecipientStaff, staffID, "for the staff"); err != nil {
		t.Fatalf("staff notification: %v", err)
	}

	memberList, _ := db.NotificationsFor(RecipientMember, memberID)
	staffList, _ := db.NotificationsFor(RecipientStaff, staffID)
	if len(memberList) != 1 || memberList[0].Message != "for the member" {
		t.Fatalf("member list: %+v", memberList)
	}
	if len(staffList) != 1 || staffList[0].Message != "for the staff" {
		t.Fatalf("staff list: %+v", staffList)
	}
}
