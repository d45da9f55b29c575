// Package dummydb is an in-memory database used in development and tests.
package dummydb

import (
	"sync"

	"github.com/edusight/edusight/core/academics"
	"github.com/edusight/edusight/core/career"
	"github.com/edusight/edusight/core/notification"
	"github.com/edusight/edusight/core/prediction"
	"github.com/edusight/edusight/core/suggestion"
	"github.com/edusight/edusight/core/user"
)

type (
	DB struct {
		user         *userTable
		academics    *academicsTables
		prediction   *predictionTables
		career       *careerTables
		suggestion   *suggestionTable
		notification *notificationTable
	}

	userTable struct {
		sync.RWMutex
		pk    int
		table map[int]*user.User
	}

	academicsTables struct {
		sync.RWMutex
		studentPK, teacherPK, attendancePK, testPK, gradePK, examPK int

		students   map[int]*academics.Student
		teachers   map[int]*academics.Teacher
		attendance map[int]*academics.Attendance
		tests      map[int]*academics.WeeklyTest
		grades     map[int]*academics.Grade
		exams      map[int]*academics.ExamSchedule
	}

	predictionTables struct {
		sync.RWMutex
		predictionPK, strategyPK, feedbackPK int

		predictions map[int]*prediction.PerformancePrediction
		strategies  map[int]*prediction.ImprovementStrategy
		feedback    map[int]*prediction.Feedback
	}

	careerTables struct {
		sync.RWMutex
		questionPK, optionPK, answerPK, careerPK, historyPK int

		questions map[int]*career.Question
		answers   map[int]*career.Answer
		careers   map[int]*career.Career
		history   map[int]*career.History
	}

	suggestionTable struct {
		sync.RWMutex
		pk    int
		table map[int]*suggestion.CourseSuggestion
	}

	notificationTable struct {
		sync.RWMutex
		pk    int
		table map[int]*notification.Notification
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[int]*user.User)},
		academics: &academicsTables{
			students:   make(map[int]*academics.Student),
			teachers:   make(map[int]*academics.Teacher),
			attendance: make(map[int]*academics.Attendance),
			tests:      make(map[int]*academics.WeeklyTest),
			grades:     make(map[int]*academics.Grade),
			exams:      make(map[int]*academics.ExamSchedule),
		},
		prediction: &predictionTables{
			predictions: make(map[int]*prediction.PerformancePrediction),
			strategies:  make(map[int]*prediction.ImprovementStrategy),
			feedback:    make(map[int]*prediction.Feedback),
		},
		career: &careerTables{
			questions: make(map[int]*career.Question),
			answers:   make(map[int]*career.Answer),
			careers:   make(map[int]*career.Career),
			history:   make(map[int]*career.History),
		},
		suggestion:   &suggestionTable{table: make(map[int]*suggestion.CourseSuggestion)},
		notification: &notificationTable{table: make(map[int]*notification.Notification)},
	}
	return db, nil
}
