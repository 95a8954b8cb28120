package company

import (
	"context"
	"errors"
	"testing"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memCompanies struct {
	items map[primitive.ObjectID]*Company
}

func (r *memCompanies) Create(_ context.Context, c *Company) error {
	c.ID = primitive.NewObjectID()
	r.items[c.ID] = c
	return nil
}

func (r *memCompanies) FindByID(_ context.Context, id primitive.ObjectID) (*Company, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("company")
	}
	return c, nil
}

func (r *memCompanies) List(context.Context) ([]Company, error) {
	var out []Company
	for _, c := range r.items {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCompanies) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.items[id]; !ok {
		return apperr.NotFound("company")
	}
	delete(r.items, id)
	return nil
}

type memAdmins struct {
	items []*Admin
}

func (r *memAdmins) Create(_ context.Context, a *Admin) error {
	a.ID = primitive.NewObjectID()
	r.items = append(r.items, a)
	return nil
}

func (r *memAdmins) FindByID(_ context.Context, id primitive.ObjectID) (*Admin, error) {
	for _, a := range r.items {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperr.NotFound("admin")
}

func (r *memAdmins) FindByEmail(_ context.Context, email string) (*Admin, error) {
	for _, a := range r.items {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, apperr.NotFound("admin")
}

func (r *memAdmins) ListByCompany(_ context.Context, companyID primitive.ObjectID) ([]Admin, error) {
	var out []Admin
	for _, a := range r.items {
		if a.CompanyID == companyID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAdmins) FindAudience(_ context.Context, companyID primitive.ObjectID, roles []common_models.AdminRole) ([]common_models.Audience, error) {
	var out []common_models.Audience
	for _, a := range r.items {
		if a.CompanyID != companyID || !a.Active {
			continue
		}
		for _, role := range roles {
			if a.Role == role {
				out = append(out, common_models.Audience{ID: a.ID, Role: a.Role})
			}
		}
	}
	return out, nil
}

func (r *memAdmins) DeleteByCompany(_ context.Context, companyID primitive.ObjectID) (int64, error) {
	var kept []*Admin
	var n int64
	for _, a := range r.items {
		if a.CompanyID == companyID {
			n++
			continue
		}
		kept = append(kept, a)
	}
	r.items = kept
	return n, nil
}

func (r *memAdmins) EnsureIndexes(context.Context) error { return nil }

type fakeIndex struct {
	ids     []primitive.ObjectID
	deleted bool
}

func (f *fakeIndex) IDsByCompany(context.Context, primitive.ObjectID) ([]primitive.ObjectID, error) {
	return f.ids, nil
}

func (f *fakeIndex) DeleteByCompany(context.Context, primitive.ObjectID) (int64, error) {
	f.deleted = true
	return int64(len(f.ids)), nil
}

type fakePurger struct {
	seen []primitive.ObjectID
	err  error
}

func (p *fakePurger) DeleteByComplaints(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	if p.err != nil {
		return 0, p.err
	}
	p.seen = ids
	return int64(len(ids)), nil
}

var bighil = common_models.Actor{ID: primitive.NewObjectID(), Role: common_models.RoleBighil}

func newTestService(index *fakeIndex, purgers ...DependentPurger) (*CompanyServiceImpl, *memCompanies, *memAdmins) {
	companies := &memCompanies{items: map[primitive.ObjectID]*Company{}}
	admins := &memAdmins{}
	svc := NewCompanyService(companies, admins, index, purgers, zap.NewNop()).(*CompanyServiceImpl)
	return svc, companies, admins
}

func TestCreateDerivesPrefix(t *testing.T) {
	svc, _, _ := newTestService(&fakeIndex{})

	company, err := svc.Create(context.Background(), bighil, CreateCompanyInput{Name: "Acme Corp"})
	require.NoError(t, err)
	assert.Equal(t, "ACM", company.Prefix)
	assert.True(t, company.Active)

	prefix, err := svc.Prefix(context.Background(), company.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACM", prefix)
}

func TestCreateRequiresPlatformOperator(t *testing.T) {
	svc, _, _ := newTestService(&fakeIndex{})
	admin := common_models.Actor{ID: primitive.NewObjectID(), Role: string(common_models.RoleSuperAdmin)}

	_, err := svc.Create(context.Background(), admin, CreateCompanyInput{Name: "Acme"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestPrefixRejectsInactiveCompany(t *testing.T) {
	svc, companies, _ := newTestService(&fakeIndex{})
	company, err := svc.Create(context.Background(), bighil, CreateCompanyInput{Name: "Globex", Prefix: "glx"})
	require.NoError(t, err)
	assert.Equal(t, "GLX", company.Prefix)

	companies.items[company.ID].Active = false
	_, err = svc.Prefix(context.Background(), company.ID)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Prefix(context.Background(), primitive.NewObjectID())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreateAdminHashesPassword(t *testing.T) {
	svc, _, admins := newTestService(&fakeIndex{})
	company, err := svc.Create(context.Background(), bighil, CreateCompanyInput{Name: "Acme"})
	require.NoError(t, err)

	superAdmin := common_models.Actor{ID: primitive.NewObjectID(), Role: string(common_models.RoleSuperAdmin), CompanyID: company.ID}
	admin, err := svc.CreateAdmin(context.Background(), superAdmin, company.ID.Hex(), CreateAdminInput{
		Name:     "Sam",
		Email:    "sam@acme.test",
		Password: "correct-horse",
		Role:     common_models.RoleSubAdmin,
	})
	require.NoError(t, err)
	require.Len(t, admins.items, 1)
	assert.NotEqual(t, "correct-horse", admin.Password)
	assert.True(t, utils.CheckPassword(admin.Password, "correct-horse"))

	other := common_models.Actor{ID: primitive.NewObjectID(), Role: string(common_models.RoleSuperAdmin), CompanyID: primitive.NewObjectID()}
	_, err = svc.CreateAdmin(context.Background(), other, company.ID.Hex(), CreateAdminInput{
		Email: "x@acme.test", Password: "correct-horse", Role: common_models.RoleAdmin,
	})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.CreateAdmin(context.Background(), bighil, company.ID.Hex(), CreateAdminInput{
		Email: "y@acme.test", Password: "correct-horse", Role: "OWNER",
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestResolveAdminsFiltersRoles(t *testing.T) {
	svc, _, admins := newTestService(&fakeIndex{})
	companyID := primitive.NewObjectID()
	admins.items = []*Admin{
		{ID: primitive.NewObjectID(), CompanyID: companyID, Role: common_models.RoleSuperAdmin, Active: true},
		{ID: primitive.NewObjectID(), CompanyID: companyID, Role: common_models.RoleSubAdmin, Active: true},
		{ID: primitive.NewObjectID(), CompanyID: companyID, Role: common_models.RoleSubAdmin, Active: false},
		{ID: primitive.NewObjectID(), CompanyID: primitive.NewObjectID(), Role: common_models.RoleSubAdmin, Active: true},
	}

	audience, err := svc.ResolveAdmins(context.Background(), companyID, []common_models.AdminRole{common_models.RoleSubAdmin})
	require.NoError(t, err)
	require.Len(t, audience, 1)
	assert.Equal(t, admins.items[1].ID, audience[0].ID)

	audience, err = svc.ResolveAdmins(context.Background(), companyID, nil)
	require.NoError(t, err)
	assert.Empty(t, audience)
}

func TestDeleteCascades(t *testing.T) {
	complaintIDs := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	index := &fakeIndex{ids: complaintIDs}
	timelines, chats := &fakePurger{}, &fakePurger{}
	svc, companies, admins := newTestService(index, timelines, chats)

	company, err := svc.Create(context.Background(), bighil, CreateCompanyInput{Name: "Acme"})
	require.NoError(t, err)
	admins.items = []*Admin{{ID: primitive.NewObjectID(), CompanyID: company.ID}}

	report, err := svc.Delete(context.Background(), bighil, company.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, &PurgeReport{Complaints: 2, Dependents: 4, Admins: 1}, report)
	assert.Equal(t, complaintIDs, timelines.seen)
	assert.Equal(t, complaintIDs, chats.seen)
	assert.True(t, index.deleted)
	assert.Empty(t, companies.items)
	assert.Empty(t, admins.items)
}

func TestDeleteStopsOnPurgerFailure(t *testing.T) {
	index := &fakeIndex{ids: []primitive.ObjectID{primitive.NewObjectID()}}
	svc, companies, _ := newTestService(index, &fakePurger{err: errors.New("mongo down")})

	company, err := svc.Create(context.Background(), bighil, CreateCompanyInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), bighil, company.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindDownstream))
	assert.False(t, index.deleted)
	assert.Contains(t, companies.items, company.ID)
}
