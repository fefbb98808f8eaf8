package service

import (
	"github.com/dukerupert/addressbook/internal/domain"
)

// Credential errors - use domain.EUNAUTHORIZED
var (
	ErrMissingCredentials = domain.Errorf(domain.EUNAUTHORIZED, "", "Please log in to manage your addresses.")
)

// Address errors - use domain.EINVALID
var (
	ErrMissingAddressID = domain.Errorf(domain.EINVALID, "", "Address has not been saved yet")
)

// unexpectedMessage is the message carried by every domain.EUNEXPECTED
// error returned from the synchronizer.
const unexpectedMessage = "Address service request failed"
