package database

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"sync"

	"conference-webapp/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocalStore keeps every collection in a single JSON file. Each call reads
// the file, applies the change and writes it back, so it only suits a single
// process.
type LocalStore struct {
	path string
	mu   sync.Mutex
}

var _ Store = (*LocalStore)(nil)

type localUser struct {
	model.UserData
	PasswordHash string `json:"password_hash"`
}

type localDB struct {
	Users          []localUser                  `json:"users"`
	Conferences    []model.Conference           `json:"conferences"`
	Participants   []model.Participant          `json:"participants"`
	ExecutiveBoard []model.ExecutiveBoardMember `json:"executive_board"`
}

func NewLocalStore(path string) *LocalStore {
	return &LocalStore{path: path}
}

func (s *LocalStore) readLocalDB() (*localDB, error) {
	db := &localDB{}

	fileBytes, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return db, nil
	} else if err != nil {
		return nil, errors.Wrapf(err, "reading %s", s.path)
	}

	if err := json.Unmarshal(fileBytes, db); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", s.path)
	}
	return db, nil
}

func (s *LocalStore) commitLocalDB(db *localDB) error {
	dbBytes, err := json.MarshalIndent(db, "", "	")
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, dbBytes, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", s.path)
	}
	return nil
}

func (s *LocalStore) view(fn func(db *localDB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.readLocalDB()
	if err != nil {
		return err
	}
	return fn(db)
}

func (s *LocalStore) update(fn func(db *localDB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.readLocalDB()
	if err != nil {
		return err
	}
	if err := fn(db); err != nil {
		return err
	}
	return s.commitLocalDB(db)
}

func (s *LocalStore) GetUserData(_ context.Context, login string) (model.UserData, error) {
	var user model.UserData
	err := s.view(func(db *localDB) error {
		for _, u := range db.Users {
			if u.Login == login {
				user = u.UserData
				user.HashedPassword = u.PasswordHash
				return nil
			}
		}
		return errors.Wrap(ErrNotFound, "user "+login)
	})
	return user, err
}

func (s *LocalStore) CreateUser(_ context.Context, user model.UserData) error {
	return s.update(func(db *localDB) error {
		for _, u := range db.Users {
			if u.Login == user.Login {
				return errors.Wrap(ErrAlreadyExists, "user "+user.Login)
			}
		}
		db.Users = append(db.Users, localUser{UserData: user, PasswordHash: user.HashedPassword})
		return nil
	})
}

func (s *LocalStore) SetUserRole(_ context.Context, login, role string) error {
	return s.update(func(db *localDB) error {
		for i := range db.Users {
			if db.Users[i].Login == login {
				db.Users[i].Role = role
				return nil
			}
		}
		return errors.Wrap(ErrNotFound, "user "+login)
	})
}

func (s *LocalStore) GetConferences(_ context.Context, organiserEmail string) ([]model.Conference, error) {
	conferences := []model.Conference{}
	err := s.view(func(db *localDB) error {
		for _, conf := range db.Conferences {
			if organiserEmail == "" || conf.OrganiserEmail == organiserEmail {
				conferences = append(conferences, conf)
			}
		}
		return nil
	})
	sort.SliceStable(conferences, func(i, j int) bool {
		return conferences[i].CreatedAt.After(conferences[j].CreatedAt)
	})
	return conferences, err
}

func (s *LocalStore) GetConference(_ context.Context, id primitive.ObjectID) (model.Conference, error) {
	var conf model.Conference
	err := s.view(func(db *localDB) error {
		for _, c := range db.Conferences {
			if c.Id == id {
				conf = c
				return nil
			}
		}
		return errors.Wrapf(ErrNotFound, "no conference with id %v in database", id.Hex())
	})
	return conf, err
}

func (s *LocalStore) CreateConference(_ context.Context, conf model.Conference) error {
	return s.update(func(db *localDB) error {
		for _, c := range db.Conferences {
			if c.Id == conf.Id {
				return errors.Wrap(ErrAlreadyExists, "conference "+conf.Id.Hex())
			}
		}
		db.Conferences = append(db.Conferences, conf)
		return nil
	})
}

func (s *LocalStore) UpdateConference(_ context.Context, conf model.Conference) error {
	return s.update(func(db *localDB) error {
		for i, c := range db.Conferences {
			if c.Id == conf.Id {
				db.Conferences[i] = conf
				return nil
			}
		}
		return errors.Wrap(ErrNotFound, "conference "+conf.Id.Hex())
	})
}

func (s *LocalStore) DeleteConference(_ context.Context, id primitive.ObjectID) error {
	return s.update(func(db *localDB) error {
		found := false
		for i, c := range db.Conferences {
			if c.Id == id {
				db.Conferences = append(db.Conferences[:i], db.Conferences[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return errors.Wrap(ErrNotFound, "conference "+id.Hex())
		}

		participants := db.Participants[:0]
		for _, p := range db.Participants {
			if p.ConferenceId != id {
				participants = append(participants, p)
			}
		}
		db.Participants = participants

		board := db.ExecutiveBoard[:0]
		for _, m := range db.ExecutiveBoard {
			if m.ConferenceId != id {
				board = append(board, m)
			}
		}
		db.ExecutiveBoard = board
		return nil
	})
}

func (s *LocalStore) GetParticipants(_ context.Context, confId primitive.ObjectID) ([]model.Participant, error) {
	participants := []model.Participant{}
	err := s.view(func(db *localDB) error {
		for _, p := range db.Participants {
			if p.ConferenceId == confId {
				participants = append(participants, p)
			}
		}
		return nil
	})
	return participants, err
}

func (s *LocalStore) GetParticipant(_ context.Context, id primitive.ObjectID) (model.Participant, error) {
	var participant model.Participant
	err := s.view(func(db *localDB) error {
		for _, p := range db.Participants {
			if p.Id == id {
				participant = p
				return nil
			}
		}
		return errors.Wrap(ErrNotFound, "participant "+id.Hex())
	})
	return participant, err
}

func (s *LocalStore) GetParticipantByUser(_ context.Context, confId, userId primitive.ObjectID) (model.Participant, error) {
	var participant model.Participant
	err := s.view(func(db *localDB) error {
		for _, p := range db.Participants {
			if p.ConferenceId == confId && p.UserId == userId {
				participant = p
				return nil
			}
		}
		return errors.Wrap(ErrNotFound, "participant for user "+userId.Hex())
	})
	return participant, err
}

func (s *LocalStore) CreateParticipant(_ context.Context, participant model.Participant) error {
	return s.update(func(db *localDB) error {
		for _, p := range db.Participants {
			if p.ConferenceId == participant.ConferenceId && p.UserId == participant.UserId {
				return errors.Wrap(ErrAlreadyExists, "registration of user "+participant.UserId.Hex())
			}
		}
		db.Participants = append(db.Participants, participant)
		return nil
	})
}

func (s *LocalStore) UpdateAssignment(_ context.Context, participantId primitive.ObjectID, committee, portfolio string) error {
	return s.update(func(db *localDB) error {
		for i := range db.Participants {
			if db.Participants[i].Id == participantId {
				db.Participants[i].Committee = committee
				db.Participants[i].Portfolio = portfolio
				return nil
			}
		}
		return errors.Wrap(ErrNotFound, "participant "+participantId.Hex())
	})
}

func (s *LocalStore) GetExecutiveBoard(_ context.Context, confId primitive.ObjectID) ([]model.ExecutiveBoardMember, error) {
	members := []model.ExecutiveBoardMember{}
	err := s.view(func(db *localDB) error {
		for _, m := range db.ExecutiveBoard {
			if m.ConferenceId == confId {
				members = append(members, m)
			}
		}
		return nil
	})
	return members, err
}

func (s *LocalStore) GetExecutiveBoardMember(_ context.Context, id primitive.ObjectID) (model.ExecutiveBoardMember, error) {
	var member model.ExecutiveBoardMember
	err := s.view(func(db *localDB) error {
		for _, m := range db.ExecutiveBoard {
			if m.Id == id {
				member = m
				return nil
			}
		}
		return errors.Wrap(ErrNotFound, "executive board member "+id.Hex())
	})
	return member, err
}

func (s *LocalStore) CreateExecutiveBoardMember(_ context.Context, member model.ExecutiveBoardMember) error {
	return s.update(func(db *localDB) error {
		db.ExecutiveBoard = append(db.ExecutiveBoard, member)
		return nil
	})
}

func (s *LocalStore) UpdateExecutiveBoardMember(_ context.Context, member model.ExecutiveBoardMember) error {
	return s.update(func(db *localDB) error {
		for i, m := range db.ExecutiveBoard {
			if m.Id == member.Id {
				db.ExecutiveBoard[i] = member
				return nil
			}
		}
		return errors.Wrap(ErrNotFound, "executive board member "+member.Id.Hex())
	})
}

func (s *LocalStore) DeleteExecutiveBoardMember(_ context.Context, id primitive.ObjectID) error {
	return s.update(func(db *localDB) error {
		for i, m := range db.ExecutiveBoard {
			if m.Id == id {
				db.ExecutiveBoard = append(db.ExecutiveBoard[:i], db.ExecutiveBoard[i+1:]...)
				return nil
			}
		}
		return errors.Wrap(ErrNotFound, "executive board member "+id.Hex())
	})
}
