package main

import (
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/storage/database"
)

func (cli *commandLine) migrate(args []string) error {
	db, err := cli.openDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err = database.RunMigrations(db, args[0], args[1:]...); err != nil {
		return errors.Wrapf(err, "migrate %s", args[0])
	}
	return nil
}
