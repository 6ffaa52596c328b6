package backend

// Canned fallback payloads served when the backend is unreachable. Values
// match the demo data the backend seeds itself with.

func mockMedicines() []Medicine {
	return []Medicine{
		{
			ID:            1,
			Name:          "Paracetamol",
			Dosage:        "500mg",
			Frequency:     "morning,afternoon,night",
			Instructions:  "Take after meals",
			MorningTime:   "08:00",
			AfternoonTime: "14:00",
			NightTime:     "21:00",
			PrescribedBy:  "Dr. Sharma",
			IsActive:      true,
			StartDate:     "2024-09-20T00:00:00Z",
		},
	}
}

func mockAppointments() []Appointment {
	return []Appointment{
		{
			ID:              1,
			DoctorName:      "Dr. Sharma",
			AppointmentDate: "2024-09-25T10:00:00Z",
			AppointmentType: "tele-consult",
			Status:          "scheduled",
			MeetLink:        "https://meet.google.com/abc-defg-hij",
		},
	}
}

func mockHealthRecords() []HealthRecord {
	return []HealthRecord{
		{
			ID:               1,
			ConsultationDate: "2024-09-20T00:00:00Z",
			DoctorName:       "Dr. Sharma",
			ConsultationType: "General Consultation",
			IsLocked:         false,
			Summary:          "Patient reported mild headache and fatigue. Prescribed rest and hydration.",
		},
	}
}

func mockPoints() *PointsData {
	return &PointsData{
		TotalPoints: 1250,
		ThisWeek:    180,
		ThisMonth:   720,
		Leaderboard: []LeaderboardEntry{
			{Rank: 1, Name: "Rajesh Kumar", Points: 2150},
			{Rank: 2, Name: "Priya Sharma", Points: 1890},
			{Rank: 3, Name: "You", Points: 1250},
			{Rank: 4, Name: "Amit Patel", Points: 1100},
			{Rank: 5, Name: "Sunita Devi", Points: 950},
		},
	}
}
