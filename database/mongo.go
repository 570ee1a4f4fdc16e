package database

import (
	"context"
	"fmt"

	"conference-webapp/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection          = "users"
	conferencesCollection    = "conferences"
	participantsCollection   = "participants"
	executiveBoardCollection = "executive_board"
)

type MongoStore struct {
	client         *mongo.Client
	users          *mongo.Collection
	conferences    *mongo.Collection
	participants   *mongo.Collection
	executiveBoard *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// DBInit connects to MongoDB, checks the server is reachable and makes sure
// the unique indexes exist.
func DBInit(ctx context.Context, connString, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connString))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the db: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("db is not available: %v", err)
	}

	db := client.Database(dbName)
	s := &MongoStore{
		client:         client,
		users:          db.Collection(usersCollection),
		conferences:    db.Collection(conferencesCollection),
		participants:   db.Collection(participantsCollection),
		executiveBoard: db.Collection(executiveBoardCollection),
	}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "login", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating users index")
	}
	_, err = s.participants.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "conference_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating participants index")
	}

	return s, nil
}

func (s *MongoStore) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func findOne(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}, what string) error {
	err := coll.FindOne(ctx, filter).Decode(out)
	if err == mongo.ErrNoDocuments {
		return errors.Wrap(ErrNotFound, what)
	}
	if err != nil {
		return errors.Wrapf(err, "reading %s", what)
	}
	return nil
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc interface{}, what string) error {
	_, err := coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return errors.Wrap(ErrAlreadyExists, what)
	}
	if err != nil {
		return errors.Wrapf(err, "writing %s", what)
	}
	return nil
}

func replaceOne(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, doc interface{}, what string) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return errors.Wrapf(err, "updating %s", what)
	}
	if res.MatchedCount == 0 {
		return errors.Wrap(ErrNotFound, what)
	}
	return nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, what string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrapf(err, "deleting %s", what)
	}
	if res.DeletedCount == 0 {
		return errors.Wrap(ErrNotFound, what)
	}
	return nil
}

func (s *MongoStore) GetUserData(ctx context.Context, login string) (model.UserData, error) {
	var user model.UserData
	err := findOne(ctx, s.users, bson.D{primitive.E{Key: "login", Value: login}}, &user, "user "+login)
	return user, err
}

func (s *MongoStore) CreateUser(ctx context.Context, user model.UserData) error {
	return insertOne(ctx, s.users, user, "user "+user.Login)
}

func (s *MongoStore) SetUserRole(ctx context.Context, login, role string) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"login": login},
		bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return errors.Wrapf(err, "updating role of %s", login)
	}
	if res.MatchedCount == 0 {
		return errors.Wrap(ErrNotFound, "user "+login)
	}
	return nil
}

func (s *MongoStore) GetConferences(ctx context.Context, organiserEmail string) ([]model.Conference, error) {
	filter := bson.M{}
	if organiserEmail != "" {
		filter["organiser_email"] = organiserEmail
	}
	cur, err := s.conferences.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(err, "reading conferences")
	}
	conferences := []model.Conference{}
	if err := cur.All(ctx, &conferences); err != nil {
		return nil, errors.Wrap(err, "decoding conferences")
	}
	return conferences, nil
}

func (s *MongoStore) GetConference(ctx context.Context, id primitive.ObjectID) (model.Conference, error) {
	var conf model.Conference
	err := findOne(ctx, s.conferences, bson.M{"_id": id}, &conf, "conference "+id.Hex())
	return conf, err
}

func (s *MongoStore) CreateConference(ctx context.Context, conf model.Conference) error {
	return insertOne(ctx, s.conferences, conf, "conference "+conf.Id.Hex())
}

func (s *MongoStore) UpdateConference(ctx context.Context, conf model.Conference) error {
	return replaceOne(ctx, s.conferences, conf.Id, conf, "conference "+conf.Id.Hex())
}

func (s *MongoStore) DeleteConference(ctx context.Context, id primitive.ObjectID) error {
	if err := deleteOne(ctx, s.conferences, id, "conference "+id.Hex()); err != nil {
		return err
	}
	if _, err := s.participants.DeleteMany(ctx, bson.M{"conference_id": id}); err != nil {
		return errors.Wrapf(err, "deleting participants of conference %s", id.Hex())
	}
	if _, err := s.executiveBoard.DeleteMany(ctx, bson.M{"conference_id": id}); err != nil {
		return errors.Wrapf(err, "deleting executive board of conference %s", id.Hex())
	}
	return nil
}

func (s *MongoStore) GetParticipants(ctx context.Context, confId primitive.ObjectID) ([]model.Participant, error) {
	cur, err := s.participants.Find(ctx,
		bson.M{"conference_id": confId},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "reading participants")
	}
	participants := []model.Participant{}
	if err := cur.All(ctx, &participants); err != nil {
		return nil, errors.Wrap(err, "decoding participants")
	}
	return participants, nil
}

func (s *MongoStore) GetParticipant(ctx context.Context, id primitive.ObjectID) (model.Participant, error) {
	var p model.Participant
	err := findOne(ctx, s.participants, bson.M{"_id": id}, &p, "participant "+id.Hex())
	return p, err
}

func (s *MongoStore) GetParticipantByUser(ctx context.Context, confId, userId primitive.ObjectID) (model.Participant, error) {
	var p model.Participant
	err := findOne(ctx, s.participants,
		bson.M{"conference_id": confId, "user_id": userId}, &p,
		fmt.Sprintf("participant for user %s", userId.Hex()))
	return p, err
}

func (s *MongoStore) CreateParticipant(ctx context.Context, participant model.Participant) error {
	return insertOne(ctx, s.participants, participant,
		fmt.Sprintf("registration of user %s", participant.UserId.Hex()))
}

func (s *MongoStore) UpdateAssignment(ctx context.Context, participantId primitive.ObjectID, committee, portfolio string) error {
	res, err := s.participants.UpdateOne(ctx,
		bson.M{"_id": participantId},
		bson.M{"$set": bson.M{"committee": committee, "portfolio": portfolio}})
	if err != nil {
		return errors.Wrapf(err, "updating assignment of %s", participantId.Hex())
	}
	if res.MatchedCount == 0 {
		return errors.Wrap(ErrNotFound, "participant "+participantId.Hex())
	}
	return nil
}

func (s *MongoStore) GetExecutiveBoard(ctx context.Context, confId primitive.ObjectID) ([]model.ExecutiveBoardMember, error) {
	cur, err := s.executiveBoard.Find(ctx, bson.M{"conference_id": confId})
	if err != nil {
		return nil, errors.Wrap(err, "reading executive board")
	}
	members := []model.ExecutiveBoardMember{}
	if err := cur.All(ctx, &members); err != nil {
		return nil, errors.Wrap(err, "decoding executive board")
	}
	return members, nil
}

func (s *MongoStore) GetExecutiveBoardMember(ctx context.Context, id primitive.ObjectID) (model.ExecutiveBoardMember, error) {
	var m model.ExecutiveBoardMember
	err := findOne(ctx, s.executiveBoard, bson.M{"_id": id}, &m, "executive board member "+id.Hex())
	return m, err
}

func (s *MongoStore) CreateExecutiveBoardMember(ctx context.Context, member model.ExecutiveBoardMember) error {
	return insertOne(ctx, s.executiveBoard, member, "executive board member "+member.Id.Hex())
}

func (s *MongoStore) UpdateExecutiveBoardMember(ctx context.Context, member model.ExecutiveBoardMember) error {
	return replaceOne(ctx, s.executiveBoard, member.Id, member, "executive board member "+member.Id.Hex())
}

func (s *MongoStore) DeleteExecutiveBoardMember(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.executiveBoard, id, "executive board member "+id.Hex())
}
