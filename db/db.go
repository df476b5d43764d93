package db

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/chordloop/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "db")

var ErrNotFound = errors.New("progression not found")

// Record is one named progression as stored in the table.
type Record struct {
	PK        string            `dynamodbav:"PK"`
	BPM       float64           `dynamodbav:"BPM"`
	Chords    model.Progression `dynamodbav:"Chords"`
	UpdatedAt string            `dynamodbav:"UpdatedAt"`
}

type Client struct {
	api   dynamodbiface.DynamoDBAPI
	table string
	now   func() time.Time
}

func New(endpoint string, region string, table string) (*Client, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return NewWithAPI(dynamodb.New(sess), table), nil
}

func NewWithAPI(api dynamodbiface.DynamoDBAPI, table string) *Client {
	return &Client{api: api, table: table, now: time.Now}
}

func (c *Client) PutProgression(name string, bpm float64, chords model.Progression) error {
	item, err := dynamodbattribute.MarshalMap(Record{
		PK:        name,
		BPM:       bpm,
		Chords:    chords,
		UpdatedAt: c.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return errors.Wrap(err, "could not marshal progression")
	}

	_, err = c.api.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	})
	if err != nil {
		return errors.Wrapf(err, "error from DynamoDB putting %v", name)
	}
	log.WithField("name", name).WithField("chords", len(chords)).Info("pushed progression")
	return nil
}

func (c *Client) GetProgression(name string) (Record, error) {
	var rec Record
	res, err := c.api.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(name)},
		},
	})
	if err != nil {
		return rec, errors.Wrapf(err, "error from DynamoDB getting %v", name)
	}
	if len(res.Item) == 0 {
		return rec, errors.Wrap(ErrNotFound, name)
	}
	if err := dynamodbattribute.UnmarshalMap(res.Item, &rec); err != nil {
		return rec, errors.Wrap(err, "could not unmarshal progression")
	}
	return rec, nil
}

// ListProgressions returns the names of every stored progression.
func (c *Client) ListProgressions() ([]string, error) {
	var names []string
	input := &dynamodb.ScanInput{
		TableName:            aws.String(c.table),
		ProjectionExpression: aws.String("PK"),
	}
	err := c.api.ScanPages(input, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		for _, item := range page.Items {
			if v, ok := item["PK"]; ok && v.S != nil {
				names = append(names, *v.S)
			}
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "error from DynamoDB listing progressions")
	}
	return names, nil
}
