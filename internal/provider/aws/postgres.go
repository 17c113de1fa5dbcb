package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/rs/zerolog/log"

	"github.com/yairfalse/awsres/internal/config"
	"github.com/yairfalse/awsres/pkg/resource"
)

// statusDeleting is the DBInstanceStatus of an instance on its way out.
const statusDeleting = "deleting"

// maxIdentifierLen leaves room for the "Master" suffix under Postgres' 63.
const maxIdentifierLen = 57

// Credentials is the secret payload stored for each database.
type Credentials struct {
	Name     string `json:"Name"`
	Password string `json:"Password"`
}

// postgresHandler creates and deletes RDS Postgres instances and the
// Secrets Manager secret holding their master credentials.
type postgresHandler struct {
	rds     RDSAPI
	secrets SecretsManagerAPI
	cfg     config.RDSConfig
	secCfg  config.SecretsConfig
}

// Create stores credentials first, then creates the instance with them.
func (h *postgresHandler) Create(ctx context.Context, spec resource.Spec) resource.Outcome {
	logger := log.With().Ctx(ctx).Str("db_instance", spec.Name).Logger()
	logger.Debug().Msg("creating postgres instance")

	pw, err := h.randomPassword(ctx)
	if err != nil {
		return resource.Failure(spec, resource.ActionCreate, err)
	}

	creds, err := h.storeCredentials(ctx, spec.Name, Credentials{Name: MasterUsername(spec.Name), Password: pw})
	if err != nil {
		return resource.Failure(spec, resource.ActionCreate, err)
	}

	_, err = h.rds.CreateDBInstance(ctx, &rds.CreateDBInstanceInput{
		DBName:                aws.String(DatabaseName(spec.Name)),
		DBInstanceIdentifier:  aws.String(spec.Name),
		DBInstanceClass:       aws.String(h.cfg.InstanceClass),
		DBSubnetGroupName:     optionalString(h.cfg.SubnetGroup),
		VpcSecurityGroupIds:   h.cfg.SecurityGroupIDs,
		BackupRetentionPeriod: aws.Int32(h.cfg.BackupRetentionDays),
		Engine:                aws.String(h.cfg.Engine),
		MasterUsername:        aws.String(creds.Name),
		MasterUserPassword:    aws.String(creds.Password),
		AllocatedStorage:      aws.Int32(h.cfg.AllocatedStorage),
		StorageEncrypted:      aws.Bool(h.cfg.StorageEncrypted),
	})
	switch classify(err) {
	case classOK:
		logger.Debug().Str("instance_class", h.cfg.InstanceClass).Msg("postgres instance created")
		return resource.Succeeded(spec, resource.ActionCreate, resource.StatusCreated)
	case classExists:
		logger.Debug().Msg("postgres instance already exists")
		return resource.Succeeded(spec, resource.ActionCreate, resource.StatusAlreadyExists)
	default:
		return resource.Failure(spec, resource.ActionCreate, fmt.Errorf("create db instance: %w", err))
	}
}

// Delete removes the secret, then the instance with a final snapshot.
// The secret goes even when the instance is already gone.
func (h *postgresHandler) Delete(ctx context.Context, spec resource.Spec) resource.Outcome {
	logger := log.With().Ctx(ctx).Str("db_instance", spec.Name).Logger()
	logger.Debug().Msg("deleting postgres instance")

	out, err := h.rds.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: aws.String(spec.Name),
	})
	missing, deleting := false, false
	switch classify(err) {
	case classOK:
		for _, db := range out.DBInstances {
			if aws.ToString(db.DBInstanceStatus) == statusDeleting {
				deleting = true
			}
			ev := logger.Debug().
				Str("user", aws.ToString(db.MasterUsername)).
				Str("status", aws.ToString(db.DBInstanceStatus))
			if db.Endpoint != nil {
				ev = ev.Str("address", aws.ToString(db.Endpoint.Address)).
					Int32("port", aws.ToInt32(db.Endpoint.Port))
			}
			ev.Msg("found db instance")
		}
	case classMissing:
		missing = true
	default:
		return resource.Failure(spec, resource.ActionDelete, fmt.Errorf("describe db instance: %w", err))
	}

	if err := h.deleteSecret(ctx, spec.Name); err != nil {
		return resource.Failure(spec, resource.ActionDelete, err)
	}

	if missing {
		return resource.Succeeded(spec, resource.ActionDelete, resource.StatusNotFound)
	}
	if deleting {
		logger.Debug().Msg("db instance already being deleted")
		return resource.Succeeded(spec, resource.ActionDelete, resource.StatusNotFound)
	}

	input := &rds.DeleteDBInstanceInput{
		DBInstanceIdentifier:   aws.String(spec.Name),
		DeleteAutomatedBackups: aws.Bool(h.cfg.DeleteAutomatedBackups),
	}
	if h.cfg.SkipFinalSnapshot {
		input.SkipFinalSnapshot = aws.Bool(true)
	} else {
		input.FinalDBSnapshotIdentifier = aws.String(spec.Name + h.cfg.FinalSnapshotSuffix)
	}

	_, err = h.rds.DeleteDBInstance(ctx, input)
	switch classify(err) {
	case classOK:
		return resource.Succeeded(spec, resource.ActionDelete, resource.StatusDeleted)
	case classMissing:
		return resource.Succeeded(spec, resource.ActionDelete, resource.StatusNotFound)
	default:
		return resource.Failure(spec, resource.ActionDelete, fmt.Errorf("delete db instance: %w", err))
	}
}

// deleteSecret schedules the credentials secret for deletion. A secret
// that is already scheduled counts as done.
func (h *postgresHandler) deleteSecret(ctx context.Context, name string) error {
	_, err := h.secrets.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:             aws.String(name),
		RecoveryWindowInDays: aws.Int64(h.secCfg.RecoveryWindowDays),
	})
	switch classify(err) {
	case classOK, classMissing:
		return nil
	}

	if errorCode(err) == "InvalidRequestException" && h.secretPendingDeletion(ctx, name) {
		log.Debug().Ctx(ctx).Str("secret", name).Msg("secret already scheduled for deletion")
		return nil
	}
	return fmt.Errorf("delete secret: %w", err)
}

func (h *postgresHandler) secretPendingDeletion(ctx context.Context, name string) bool {
	out, err := h.secrets.DescribeSecret(ctx, &secretsmanager.DescribeSecretInput{SecretId: aws.String(name)})
	return err == nil && out.DeletedDate != nil
}

func (h *postgresHandler) randomPassword(ctx context.Context) (string, error) {
	input := &secretsmanager.GetRandomPasswordInput{
		PasswordLength: aws.Int64(h.secCfg.PasswordLength),
	}
	if h.secCfg.ExcludeCharacters != "" {
		input.ExcludeCharacters = aws.String(h.secCfg.ExcludeCharacters)
	}

	out, err := h.secrets.GetRandomPassword(ctx, input)
	if err != nil {
		return "", fmt.Errorf("get random password: %w", err)
	}
	if aws.ToString(out.RandomPassword) == "" {
		return "", errors.New("get random password: empty password")
	}
	return aws.ToString(out.RandomPassword), nil
}

// storeCredentials creates the secret. When it already exists the stored
// credentials win, so a re-run never drifts from what the instance uses.
func (h *postgresHandler) storeCredentials(ctx context.Context, name string, creds Credentials) (Credentials, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return Credentials{}, fmt.Errorf("marshal credentials: %w", err)
	}

	_, err = h.secrets.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(name),
		SecretString: aws.String(string(payload)),
	})
	switch classify(err) {
	case classOK:
		return creds, nil
	case classExists:
		log.Debug().Ctx(ctx).Str("secret", name).Msg("secret already exists, reusing stored credentials")
	default:
		return Credentials{}, fmt.Errorf("create secret: %w", err)
	}

	out, err := h.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(name)})
	if err != nil {
		return Credentials{}, fmt.Errorf("get secret value: %w", err)
	}

	var stored Credentials
	if err := json.Unmarshal([]byte(aws.ToString(out.SecretString)), &stored); err != nil {
		return Credentials{}, fmt.Errorf("parse secret %s: %w", name, err)
	}
	if stored.Name == "" || stored.Password == "" {
		return Credentials{}, fmt.Errorf("secret %s is missing Name or Password", name)
	}
	return stored, nil
}

// DatabaseName derives a Postgres identifier from a resource name:
// letters and digits only, starting with a letter.
func DatabaseName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}

	id := b.String()
	if id == "" || !unicode.IsLetter(rune(id[0])) {
		id = "db" + id
	}
	if len(id) > maxIdentifierLen {
		id = id[:maxIdentifierLen]
	}
	return id
}

// MasterUsername is the database's master user for a resource name.
func MasterUsername(name string) string {
	return DatabaseName(name) + "Master"
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
