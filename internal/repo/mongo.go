package repo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/padipos/padipos/internal/apperr"
	"github.com/padipos/padipos/internal/models"
)

const (
	ordersCollection = "orders"
	menuCollection   = "menu_items"
	usersCollection  = "users"
)

// MongoRepo keeps each order as one document with its items embedded.
type MongoRepo struct {
	DB *mongo.Database
}

func OpenMongo(ctx context.Context, uri, database string) (*mongo.Client, *MongoRepo, error) {
	if uri == "" {
		return nil, nil, fmt.Errorf("MONGODB_URI is empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, &MongoRepo{DB: client.Database(database)}, nil
}

func (r *MongoRepo) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		ordersCollection: {
			{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "isArchived", Value: 1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		menuCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}},
		},
	}

	for coll, idx := range indexes {
		if _, err := r.DB.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

type orderItemDoc struct {
	ID       string `bson:"_id"`
	MenuItem string `bson:"menuItem"`
	Quantity int    `bson:"quantity"`
	Note     string `bson:"note"`
	Price    int64  `bson:"price"`
}

type orderDoc struct {
	ID             string         `bson:"_id"`
	User           string         `bson:"user"`
	OrderNumber    string         `bson:"orderNumber"`
	OrderDate      time.Time      `bson:"orderDate"`
	CustomerName   string         `bson:"customerName"`
	OrderType      string         `bson:"orderType"`
	TableNumber    *int           `bson:"tableNumber"`
	Items          []orderItemDoc `bson:"items"`
	Subtotal       int64          `bson:"subtotal"`
	Tax            int64          `bson:"tax"`
	Total          int64          `bson:"total"`
	ReceivedAmount int64          `bson:"receivedAmount"`
	Change         int64          `bson:"change"`
	IsArchived     bool           `bson:"isArchived"`
	IsPaid         bool           `bson:"isPaid"`
	CreatedAt      time.Time      `bson:"createdAt"`
	UpdatedAt      time.Time      `bson:"updatedAt"`
}

func toOrderDoc(o *models.Order) orderDoc {
	d := orderDoc{
		ID:             o.ID.String(),
		User:           o.UserID.String(),
		OrderNumber:    o.OrderNumber,
		OrderDate:      o.OrderDate.UTC(),
		CustomerName:   o.CustomerName,
		OrderType:      o.OrderType,
		TableNumber:    o.TableNumber,
		Items:          make([]orderItemDoc, len(o.Items)),
		Subtotal:       o.Subtotal,
		Tax:            o.Tax,
		Total:          o.Total,
		ReceivedAmount: o.ReceivedAmount,
		Change:         o.Change,
		IsArchived:     o.IsArchived,
		IsPaid:         o.IsPaid,
		CreatedAt:      o.CreatedAt.UTC(),
		UpdatedAt:      o.UpdatedAt.UTC(),
	}
	for i, it := range o.Items {
		d.Items[i] = orderItemDoc{
			ID:       it.ID.String(),
			MenuItem: it.MenuItemID.String(),
			Quantity: it.Quantity,
			Note:     it.Note,
			Price:    it.SnapshotPrice,
		}
	}
	return d
}

func (d orderDoc) toModel() (models.Order, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.Order{}, fmt.Errorf("order _id %q: %w", d.ID, err)
	}
	user, err := uuid.Parse(d.User)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %s user %q: %w", d.ID, d.User, err)
	}

	o := models.Order{
		ID:             id,
		UserID:         user,
		OrderNumber:    d.OrderNumber,
		OrderDate:      d.OrderDate,
		CustomerName:   d.CustomerName,
		OrderType:      d.OrderType,
		TableNumber:    d.TableNumber,
		Items:          make([]models.OrderItem, len(d.Items)),
		Subtotal:       d.Subtotal,
		Tax:            d.Tax,
		Total:          d.Total,
		ReceivedAmount: d.ReceivedAmount,
		Change:         d.Change,
		IsArchived:     d.IsArchived,
		IsPaid:         d.IsPaid,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	for i, it := range d.Items {
		itemID, _ := uuid.Parse(it.ID)
		menuID, err := uuid.Parse(it.MenuItem)
		if err != nil {
			return models.Order{}, fmt.Errorf("order %s item %d menuItem %q: %w", d.ID, i, it.MenuItem, err)
		}
		o.Items[i] = models.OrderItem{
			ID:            itemID,
			OrderID:       id,
			Position:      i,
			MenuItemID:    menuID,
			Quantity:      it.Quantity,
			Note:          it.Note,
			SnapshotPrice: it.Price,
		}
	}
	return o, nil
}

func (r *MongoRepo) orders() *mongo.Collection { return r.DB.Collection(ordersCollection) }
func (r *MongoRepo) menu() *mongo.Collection   { return r.DB.Collection(menuCollection) }
func (r *MongoRepo) users() *mongo.Collection  { return r.DB.Collection(usersCollection) }

func mongoNotFound(err error, what string, id any) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %s %v", apperr.ErrNotFound, what, id)
	}
	return err
}

func (r *MongoRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	now := time.Now().UTC()
	o.ID = uuid.New()
	prepareItems(o)
	o.CreatedAt, o.UpdatedAt = now, now

	if _, err := r.orders().InsertOne(ctx, toOrderDoc(o)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateNumber(o.OrderNumber)
		}
		return err
	}
	return nil
}

func (r *MongoRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var d orderDoc
	if err := r.orders().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&d); err != nil {
		return nil, mongoNotFound(err, "order", id)
	}
	o, err := d.toModel()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *MongoRepo) ListOrders(ctx context.Context, userID uuid.UUID, f models.OrderFilter) ([]models.Order, error) {
	filter := bson.M{"user": userID.String()}
	if f.Archived != nil {
		filter["isArchived"] = *f.Archived
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "orderNumber", Value: 1}})
	if f.Limit > 0 {
		opts.SetSkip(int64(f.Offset)).SetLimit(int64(f.Limit))
	}
	cur, err := r.orders().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *MongoRepo) updateOrder(ctx context.Context, id uuid.UUID, set bson.M) error {
	set["updatedAt"] = time.Now().UTC()
	res, err := r.orders().UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	return nil
}

func orderHeader(o *models.Order) bson.M {
	return bson.M{
		"subtotal":       o.Subtotal,
		"tax":            o.Tax,
		"total":          o.Total,
		"receivedAmount": o.ReceivedAmount,
		"change":         o.Change,
		"isArchived":     o.IsArchived,
		"isPaid":         o.IsPaid,
	}
}

func (r *MongoRepo) SaveOrder(ctx context.Context, o *models.Order) error {
	return r.updateOrder(ctx, o.ID, orderHeader(o))
}

// SaveOrderWithItems is a single document update, so header and items
// change together.
func (r *MongoRepo) SaveOrderWithItems(ctx context.Context, o *models.Order) error {
	prepareItems(o)
	set := orderHeader(o)
	set["items"] = toOrderDoc(o).Items
	return r.updateOrder(ctx, o.ID, set)
}

func (r *MongoRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	res, err := r.orders().DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	return nil
}

func (r *MongoRepo) DeleteAllOrders(ctx context.Context) (int64, error) {
	res, err := r.orders().DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

type menuDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	Price       int64     `bson:"price"`
	Image       string    `bson:"image"`
	Category    string    `bson:"category"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func toMenuDoc(m *models.MenuItem) menuDoc {
	return menuDoc{
		ID:          m.ID.String(),
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Image:       m.Image,
		Category:    m.Category,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func (d menuDoc) toModel() (models.MenuItem, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("menu item _id %q: %w", d.ID, err)
	}
	return models.MenuItem{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Image:       d.Image,
		Category:    d.Category,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func (r *MongoRepo) findMenu(ctx context.Context, filter any, opts ...*options.FindOptions) ([]models.MenuItem, error) {
	cur, err := r.menu().Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []menuDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]models.MenuItem, 0, len(docs))
	for _, d := range docs {
		m, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *MongoRepo) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var d menuDoc
	if err := r.menu().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&d); err != nil {
		return nil, mongoNotFound(err, "menu item", id)
	}
	m, err := d.toModel()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MongoRepo) GetMenuItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.MenuItem, error) {
	out := make(map[uuid.UUID]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	items, err := r.findMenu(ctx, bson.M{"_id": bson.M{"$in": keys}})
	if err != nil {
		return nil, err
	}
	for _, m := range items {
		out[m.ID] = m
	}
	return out, nil
}

func (r *MongoRepo) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return r.findMenu(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}))
}

func (r *MongoRepo) SearchMenuItems(ctx context.Context, q string) ([]models.MenuItem, error) {
	re := bson.M{"$regex": regexp.QuoteMeta(strings.TrimSpace(q)), "$options": "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": re},
		bson.M{"description": re},
		bson.M{"category": re},
	}}
	return r.findMenu(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *MongoRepo) CreateMenuItem(ctx context.Context, m *models.MenuItem) error {
	now := time.Now().UTC()
	m.ID = uuid.New()
	m.CreatedAt, m.UpdatedAt = now, now
	_, err := r.menu().InsertOne(ctx, toMenuDoc(m))
	return err
}

func (r *MongoRepo) SaveMenuItem(ctx context.Context, m *models.MenuItem) error {
	m.UpdatedAt = time.Now().UTC()
	res, err := r.menu().UpdateOne(ctx, bson.M{"_id": m.ID.String()}, bson.M{"$set": bson.M{
		"name":        m.Name,
		"description": m.Description,
		"price":       m.Price,
		"image":       m.Image,
		"category":    m.Category,
		"updatedAt":   m.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: menu item %s", apperr.ErrNotFound, m.ID)
	}
	return nil
}

func (r *MongoRepo) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	res, err := r.menu().DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: menu item %s", apperr.ErrNotFound, id)
	}
	return nil
}

func (r *MongoRepo) ReplaceMenu(ctx context.Context, items []models.MenuItem) error {
	if _, err := r.menu().DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]any, len(items))
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].CreatedAt, items[i].UpdatedAt = now, now
		docs[i] = toMenuDoc(&items[i])
	}
	_, err := r.menu().InsertMany(ctx, docs)
	return err
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	Role         string    `bson:"role"`
	ProfileImage string    `bson:"profileImage"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (d userDoc) toModel() (*models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("user _id %q: %w", d.ID, err)
	}
	return &models.User{
		ID:           id,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		ProfileImage: d.ProfileImage,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

func (r *MongoRepo) CreateUser(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.ID = uuid.New()
	if u.Role == "" {
		u.Role = models.RoleCashier
	}
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := r.users().InsertOne(ctx, userDoc{
		ID:           u.ID.String(),
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		ProfileImage: u.ProfileImage,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if mongo.IsDuplicateKeyError(err) {
		return emailTaken(u.Email)
	}
	return err
}

func (r *MongoRepo) findUser(ctx context.Context, filter bson.M, key any) (*models.User, error) {
	var d userDoc
	if err := r.users().FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, mongoNotFound(err, "user", key)
	}
	return d.toModel()
}

func (r *MongoRepo) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findUser(ctx, bson.M{"_id": id.String()}, id)
}

func (r *MongoRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, bson.M{"email": email}, email)
}

func (r *MongoRepo) SaveUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := r.users().UpdateOne(ctx, bson.M{"_id": u.ID.String()}, bson.M{"$set": bson.M{
		"username":     u.Username,
		"email":        u.Email,
		"password":     u.PasswordHash,
		"profileImage": u.ProfileImage,
		"updatedAt":    u.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return emailTaken(u.Email)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user %s", apperr.ErrNotFound, u.ID)
	}
	return nil
}

func (r *MongoRepo) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	return r.users().CountDocuments(ctx, bson.M{"role": role})
}
